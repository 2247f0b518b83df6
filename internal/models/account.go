package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank account that bill payments debit.
type Account struct {
	AccountID string          `firestore:"accountId" json:"accountId"`
	Name      string          `firestore:"name" json:"name"`
	Balance   decimal.Decimal `firestore:"balance" json:"balance"`
	Currency  string          `firestore:"currency" json:"currency"`
	CreatedAt time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time       `firestore:"updatedAt" json:"updatedAt"`
}
