package billing

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

// Bill is the derived monthly view of a card's transactions. It is computed
// on every read and never persisted.
//
// A bill can be simultaneously closed and open: closed-but-not-yet-due is
// the normal "pay me soon" state.
type Bill struct {
	Key          string
	ClosingDate  civil.Date
	DueDate      civil.Date
	Transactions []models.Transaction
	Total        decimal.Decimal // completed transactions only
}

// IsOpen reports whether the bill is not yet past its due date.
func (b Bill) IsOpen(today civil.Date) bool { return !today.After(b.DueDate) }

// IsClosed reports whether the cycle has closed for new purchases.
func (b Bill) IsClosed(today civil.Date) bool { return today.After(b.ClosingDate) }

// BuildBills buckets every non-cancelled transaction by its own reference
// date and returns the bills sorted descending by (year, month). Only
// completed transactions contribute to each bill's total.
func BuildBills(txs []models.Transaction, cs CycleSettings) ([]Bill, error) {
	byKey := make(map[string]*Bill)
	for _, tx := range txs {
		if tx.Status == models.StatusCancelled {
			continue
		}
		ref, err := civil.ParseDate(tx.Date)
		if err != nil {
			return nil, errs.NewValidationError("transaction " + tx.TransactionID + " has a malformed date: " + tx.Date)
		}
		bucket := AllocateBucket(ref, cs)
		b, ok := byKey[bucket.Key]
		if !ok {
			b = &Bill{
				Key:         bucket.Key,
				ClosingDate: bucket.ClosingDate,
				DueDate:     bucket.DueDate,
				Total:       decimal.Zero,
			}
			byKey[bucket.Key] = b
		}
		b.Transactions = append(b.Transactions, tx)
		if tx.Status == models.StatusCompleted {
			b.Total = b.Total.Add(tx.Amount)
		}
	}

	bills := make([]Bill, 0, len(byKey))
	for _, b := range byKey {
		bills = append(bills, *b)
	}
	// "YYYY-MM" keys sort chronologically as strings
	sort.Slice(bills, func(i, j int) bool { return bills[i].Key > bills[j].Key })
	return bills, nil
}

// OpenBills filters to bills not yet past due, sorted ascending so the bill
// to pay next comes first.
func OpenBills(bills []Bill, today civil.Date) []Bill {
	open := make([]Bill, 0, len(bills))
	for _, b := range bills {
		if b.IsOpen(today) {
			open = append(open, b)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Key < open[j].Key })
	return open
}

// CurrentBill returns the earliest-due open bill, if any.
func CurrentBill(bills []Bill, today civil.Date) (Bill, bool) {
	open := OpenBills(bills, today)
	if len(open) == 0 {
		return Bill{}, false
	}
	return open[0], true
}

// OpenTotal sums the totals of open bills that are still accumulating
// charges (open and not yet closed).
func OpenTotal(bills []Bill, today civil.Date) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		if b.IsOpen(today) && !b.IsClosed(today) {
			total = total.Add(b.Total)
		}
	}
	return total
}

// Groups partitions a bill's transactions into three disjoint display
// groups: recurring subscriptions, installment purchases, and single
// purchases. Subtotals cover completed transactions, so the three always
// sum to the bill's total.
type Groups struct {
	Recurring         []models.Transaction
	Installments      []models.Transaction
	Singles           []models.Transaction
	RecurringTotal    decimal.Decimal
	InstallmentsTotal decimal.Decimal
	SinglesTotal      decimal.Decimal
}

func GroupBill(b Bill) Groups {
	g := Groups{
		RecurringTotal:    decimal.Zero,
		InstallmentsTotal: decimal.Zero,
		SinglesTotal:      decimal.Zero,
	}
	for _, tx := range b.Transactions {
		completed := tx.Status == models.StatusCompleted
		switch {
		case tx.IsRecurring:
			g.Recurring = append(g.Recurring, tx)
			if completed {
				g.RecurringTotal = g.RecurringTotal.Add(tx.Amount)
			}
		case tx.InstallmentCount > 1:
			g.Installments = append(g.Installments, tx)
			if completed {
				g.InstallmentsTotal = g.InstallmentsTotal.Add(tx.Amount)
			}
		default:
			g.Singles = append(g.Singles, tx)
			if completed {
				g.SinglesTotal = g.SinglesTotal.Add(tx.Amount)
			}
		}
	}
	return g
}
