package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Transaction is one credit-card purchase leg. A purchase split into N
// installments produces N rows sharing purchaseDate; each row carries its own
// reference date and the bill it was allocated to at creation time.
type Transaction struct {
	TransactionID    string            `firestore:"transactionId" json:"transactionId"`
	CreditCardID     string            `firestore:"creditCardId" json:"creditCardId"`
	Amount           decimal.Decimal   `firestore:"amount" json:"amount"`
	Currency         string            `firestore:"currency" json:"currency"`
	Category         string            `firestore:"category" json:"category,omitempty"`
	Description      string            `firestore:"description" json:"description,omitempty"`
	Merchant         string            `firestore:"merchant" json:"merchant,omitempty"`
	PurchaseDate     string            `firestore:"purchaseDate" json:"purchaseDate"` // YYYY-MM-DD, shared by all installments of one purchase
	Date             string            `firestore:"date" json:"date"`                 // this row's reference date (purchaseDate advanced per installment)
	BillKey          string            `firestore:"billKey" json:"billKey"`           // "YYYY-MM" of the due month
	ClosingDate      string            `firestore:"closingDate" json:"closingDate"`
	DueDate          string            `firestore:"dueDate" json:"dueDate"`
	InstallmentIndex int               `firestore:"installmentIndex" json:"installmentIndex"` // 1-based
	InstallmentCount int               `firestore:"installmentCount" json:"installmentCount"` // 1 means a single purchase
	IsRecurring      bool              `firestore:"isRecurring" json:"isRecurring"`
	Status           TransactionStatus `firestore:"status" json:"status"`
	CreatedAt        time.Time         `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `firestore:"updatedAt" json:"updatedAt"`
}

func (t *Transaction) RemainingInstallments() int {
	return t.InstallmentCount - t.InstallmentIndex
}
