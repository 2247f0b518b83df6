package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard holds the cycle settings that drive bill allocation. UsedLimit
// is a recomputed aggregate over completed transactions, never written
// outside the recompute path.
type CreditCard struct {
	CardID      string          `firestore:"cardId" json:"cardId"`
	AccountID   string          `firestore:"accountId" json:"accountId"`
	Name        string          `firestore:"name" json:"name"`
	LastDigits  string          `firestore:"lastDigits" json:"lastDigits"`
	CreditLimit decimal.Decimal `firestore:"creditLimit" json:"creditLimit"`
	ClosingDay  int             `firestore:"closingDay" json:"closingDay"` // 1-31
	DueDay      int             `firestore:"dueDay" json:"dueDay"`         // 1-31
	UsedLimit   decimal.Decimal `firestore:"usedLimit" json:"usedLimit"`
	CreatedAt   time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

func (c *CreditCard) AvailableLimit() decimal.Decimal {
	return c.CreditLimit.Sub(c.UsedLimit)
}
