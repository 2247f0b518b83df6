package billing

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
)

// Metadata is copied verbatim onto every installment row of a purchase.
type Metadata struct {
	Category    string
	Description string
	Merchant    string
	IsRecurring bool
}

// Draft is a transaction row ready to persist, one per installment.
type Draft struct {
	Amount           decimal.Decimal
	PurchaseDate     civil.Date
	ReferenceDate    civil.Date // purchase date advanced k-1 months
	Bucket           Bucket
	InstallmentIndex int // 1-based
	InstallmentCount int
	Metadata         Metadata
}

var (
	cents = decimal.NewFromInt(100)
)

// ExpandInstallments splits a purchase of total into count dated drafts.
// The per-installment amount is the total divided down to the cent; any
// fractional-cent remainder is absorbed by the first installment, so the
// drafts always sum to the exact total.
//
// Each installment is dated by advancing the purchase date by k-1 calendar
// months (clamped at month-end) and re-running the closing-day check on that
// date. Installments are therefore not guaranteed to land in consecutive
// bill keys when clamping shifts a date across a closing boundary.
func ExpandInstallments(total decimal.Decimal, count int, purchase civil.Date, cs CycleSettings, meta Metadata) ([]Draft, error) {
	if !total.IsPositive() {
		return nil, errs.NewValidationError("totalAmount must be greater than zero")
	}
	if count < 1 {
		return nil, errs.NewValidationError("installmentCount must be at least 1")
	}
	totalCents := total.Mul(cents)
	if !totalCents.Equal(totalCents.Truncate(0)) {
		return nil, errs.NewValidationError("totalAmount must have at most two decimal places")
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(count))
	baseCents := totalCents.DivRound(n, 8).Floor()
	remainderCents := totalCents.Sub(baseCents.Mul(n))

	drafts := make([]Draft, 0, count)
	for k := 1; k <= count; k++ {
		amountCents := baseCents
		if k == 1 {
			amountCents = baseCents.Add(remainderCents)
		}
		ref := addMonths(purchase, k-1)
		drafts = append(drafts, Draft{
			Amount:           amountCents.Div(cents),
			PurchaseDate:     purchase,
			ReferenceDate:    ref,
			Bucket:           AllocateBucket(ref, cs),
			InstallmentIndex: k,
			InstallmentCount: count,
			Metadata:         meta,
		})
	}
	return drafts, nil
}
