// Package billing implements the billing-cycle allocator: mapping purchases
// to monthly bills by a card's closing day, splitting purchases into
// installments, and aggregating a card's transactions into bill views.
//
// Everything here is pure. Dates are civil.Date (no time-of-day, no
// timezone), so day/month extraction can never shift across zones.
package billing

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
)

// CycleSettings are the card parameters that drive bill allocation.
type CycleSettings struct {
	ClosingDay int // day-of-month the cycle closes, 1-31
	DueDay     int // day-of-month payment is due, 1-31
}

func (cs CycleSettings) Validate() error {
	if cs.ClosingDay < 1 || cs.ClosingDay > 31 {
		return errs.NewValidationError("closingDay must be between 1 and 31")
	}
	if cs.DueDay < 1 || cs.DueDay > 31 {
		return errs.NewValidationError("dueDay must be between 1 and 31")
	}
	return nil
}

// Bucket identifies the bill period a transaction belongs to. Bills are
// keyed by their due month, not their closing month.
type Bucket struct {
	Key         string     // "YYYY-MM" of the due month
	ClosingDate civil.Date
	DueDate     civil.Date
}

// AllocateBucket maps a reference date to its bill period. A purchase dated
// on the closing day itself rolls into the next cycle (>=, not >). When the
// due day is on or before the closing day the due date necessarily falls in
// the month after the closing month.
func AllocateBucket(ref civil.Date, cs CycleSettings) Bucket {
	billYear, billMonth := ref.Year, ref.Month
	if ref.Day >= cs.ClosingDay {
		billYear, billMonth = nextMonth(billYear, billMonth)
	}
	closing := civil.Date{
		Year:  billYear,
		Month: billMonth,
		Day:   clampToMonth(billYear, billMonth, cs.ClosingDay),
	}

	dueYear, dueMonth := billYear, billMonth
	if cs.DueDay <= cs.ClosingDay {
		dueYear, dueMonth = nextMonth(dueYear, dueMonth)
	}
	due := civil.Date{
		Year:  dueYear,
		Month: dueMonth,
		Day:   clampToMonth(dueYear, dueMonth, cs.DueDay),
	}

	return Bucket{
		Key:         BucketKey(dueYear, dueMonth),
		ClosingDate: closing,
		DueDate:     due,
	}
}

// BucketKey formats a bill identifier from its due year and month.
func BucketKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// clampToMonth pins a day-of-month to the month's last day instead of
// letting it roll into the next month (31 in February stays in February).
func clampToMonth(year int, month time.Month, day int) int {
	if last := daysIn(year, month); day > last {
		return last
	}
	return day
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonths advances a date by n calendar months, clamping the day at
// month-end (Jan 31 + 1 month = Feb 28/29).
func addMonths(d civil.Date, n int) civil.Date {
	total := int(d.Month) - 1 + n
	year := d.Year + total/12
	month := time.Month(total%12 + 1)
	return civil.Date{Year: year, Month: month, Day: clampToMonth(year, month, d.Day)}
}
