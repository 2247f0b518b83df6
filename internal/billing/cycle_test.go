package billing

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestAllocateBucket_BeforeClosingDay(t *testing.T) {
	// Scenario A: closingDay=10, dueDay=15, purchase on the 9th stays in January.
	cs := CycleSettings{ClosingDay: 10, DueDay: 15}
	b := AllocateBucket(date(2025, time.January, 9), cs)

	if b.Key != "2025-01" {
		t.Errorf("expected key 2025-01, got %s", b.Key)
	}
	if b.ClosingDate != date(2025, time.January, 10) {
		t.Errorf("expected closing 2025-01-10, got %v", b.ClosingDate)
	}
	if b.DueDate != date(2025, time.January, 15) {
		t.Errorf("expected due 2025-01-15, got %v", b.DueDate)
	}
}

func TestAllocateBucket_OnClosingDayRollsForward(t *testing.T) {
	// Scenario B: the closing day itself belongs to the next bill.
	cs := CycleSettings{ClosingDay: 10, DueDay: 15}
	b := AllocateBucket(date(2025, time.January, 10), cs)

	if b.Key != "2025-02" {
		t.Errorf("expected key 2025-02, got %s", b.Key)
	}
	if b.DueDate != date(2025, time.February, 15) {
		t.Errorf("expected due 2025-02-15, got %v", b.DueDate)
	}
}

func TestAllocateBucket_DueDayBeforeClosingDayShiftsMonth(t *testing.T) {
	// closingDay=30, dueDay=10: the due date lands in the month after closing.
	cs := CycleSettings{ClosingDay: 30, DueDay: 10}
	b := AllocateBucket(date(2025, time.March, 5), cs)

	if b.ClosingDate != date(2025, time.March, 30) {
		t.Errorf("expected closing 2025-03-30, got %v", b.ClosingDate)
	}
	if b.DueDate != date(2025, time.April, 10) {
		t.Errorf("expected due 2025-04-10, got %v", b.DueDate)
	}
	if b.Key != "2025-04" {
		t.Errorf("expected key 2025-04 (keyed by due month), got %s", b.Key)
	}
}

func TestAllocateBucket_YearWrap(t *testing.T) {
	cs := CycleSettings{ClosingDay: 10, DueDay: 5}
	b := AllocateBucket(date(2024, time.December, 20), cs)

	if b.ClosingDate != date(2025, time.January, 10) {
		t.Errorf("expected closing 2025-01-10, got %v", b.ClosingDate)
	}
	if b.DueDate != date(2025, time.February, 5) {
		t.Errorf("expected due 2025-02-05, got %v", b.DueDate)
	}
	if b.Key != "2025-02" {
		t.Errorf("expected key 2025-02, got %s", b.Key)
	}
}

func TestAllocateBucket_ClampsClosingDayToMonthEnd(t *testing.T) {
	// Day 31 clamps to the last day of February rather than rolling into March.
	cs := CycleSettings{ClosingDay: 31, DueDay: 31}
	b := AllocateBucket(date(2025, time.February, 10), cs)

	if b.ClosingDate != date(2025, time.February, 28) {
		t.Errorf("expected closing clamped to 2025-02-28, got %v", b.ClosingDate)
	}
	if b.DueDate != date(2025, time.March, 31) {
		t.Errorf("expected due 2025-03-31, got %v", b.DueDate)
	}
}

func TestAllocateBucket_LeapFebruary(t *testing.T) {
	cs := CycleSettings{ClosingDay: 30, DueDay: 30}
	b := AllocateBucket(date(2024, time.February, 1), cs)

	if b.ClosingDate != date(2024, time.February, 29) {
		t.Errorf("expected closing 2024-02-29, got %v", b.ClosingDate)
	}
}

func TestAllocateBucket_RolloverSweep(t *testing.T) {
	// For any closing day, the closing day rolls forward and the day
	// before stays put.
	for closing := 1; closing <= 28; closing++ {
		cs := CycleSettings{ClosingDay: closing, DueDay: closing}
		on := AllocateBucket(date(2025, time.May, closing), cs)
		if on.Key != "2025-07" { // bill month June, due month July (dueDay <= closingDay)
			t.Errorf("closingDay=%d: purchase on closing day got key %s, want 2025-07", closing, on.Key)
		}
		if closing > 1 {
			before := AllocateBucket(date(2025, time.May, closing-1), cs)
			if before.Key != "2025-06" {
				t.Errorf("closingDay=%d: purchase before closing day got key %s, want 2025-06", closing, before.Key)
			}
		}
	}
}

func TestCycleSettingsValidate(t *testing.T) {
	cases := []struct {
		name    string
		cs      CycleSettings
		wantErr bool
	}{
		{"valid", CycleSettings{ClosingDay: 10, DueDay: 15}, false},
		{"closing day zero", CycleSettings{ClosingDay: 0, DueDay: 15}, true},
		{"closing day too high", CycleSettings{ClosingDay: 32, DueDay: 15}, true},
		{"due day zero", CycleSettings{ClosingDay: 10, DueDay: 0}, true},
		{"due day too high", CycleSettings{ClosingDay: 10, DueDay: 32}, true},
		{"extremes", CycleSettings{ClosingDay: 1, DueDay: 31}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cs.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAddMonths_ClampsAtMonthEnd(t *testing.T) {
	got := addMonths(date(2025, time.January, 31), 1)
	if got != date(2025, time.February, 28) {
		t.Errorf("expected 2025-02-28, got %v", got)
	}
	got = addMonths(date(2024, time.January, 31), 1)
	if got != date(2024, time.February, 29) {
		t.Errorf("expected 2024-02-29, got %v", got)
	}
	got = addMonths(date(2025, time.November, 15), 3)
	if got != date(2026, time.February, 15) {
		t.Errorf("expected 2026-02-15, got %v", got)
	}
}
