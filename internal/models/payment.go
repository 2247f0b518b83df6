package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillPayment records that a bill (identified by card and bill key) was paid
// from an account. Bills themselves stay derived views; these documents are
// what makes "paid" durable.
type BillPayment struct {
	PaymentID    string          `firestore:"paymentId" json:"paymentId"`
	CreditCardID string          `firestore:"creditCardId" json:"creditCardId"`
	BillKey      string          `firestore:"billKey" json:"billKey"`
	AccountID    string          `firestore:"accountId" json:"accountId"`
	Amount       decimal.Decimal `firestore:"amount" json:"amount"`
	PaidAt       time.Time       `firestore:"paidAt" json:"paidAt"`
}
