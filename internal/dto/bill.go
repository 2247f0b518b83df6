package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

type BillView struct {
	Key              string          `json:"key"` // "YYYY-MM" of the due month
	ClosingDate      string          `json:"closingDate"`
	DueDate          string          `json:"dueDate"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TransactionCount int             `json:"transactionCount"`
	IsOpen           bool            `json:"isOpen"`
	IsClosed         bool            `json:"isClosed"`
	IsPaid           bool            `json:"isPaid"`
}

type BillGroupView struct {
	Transactions []models.Transaction `json:"transactions"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
}

type BillDetail struct {
	BillView
	Subscriptions BillGroupView `json:"subscriptions"`
	Installments  BillGroupView `json:"installments"`
	Singles       BillGroupView `json:"singles"`
}

type BillsResult struct {
	Bills          []BillView      `json:"bills"`
	CurrentBillKey string          `json:"currentBillKey,omitempty"`
	OpenTotal      decimal.Decimal `json:"openTotal"`
}

type PayBillRequest struct {
	AccountID string `json:"accountId" validate:"required"`
}

type PayBillResult struct {
	Payment        models.BillPayment `json:"payment"`
	AccountBalance decimal.Decimal    `json:"accountBalance"`
}
