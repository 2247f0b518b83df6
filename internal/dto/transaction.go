package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

type CreatePurchaseRequest struct {
	TotalAmount      decimal.Decimal `json:"totalAmount" validate:"required"`
	InstallmentCount int             `json:"installmentCount" validate:"omitempty,min=1"` // 0 defaults to 1
	PurchaseDate     string          `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
	Currency         string          `json:"currency,omitempty"`
	Category         string          `json:"category,omitempty"`
	Description      string          `json:"description,omitempty"`
	Merchant         string          `json:"merchant,omitempty"`
	IsRecurring      bool            `json:"isRecurring,omitempty"`
	Status           string          `json:"status,omitempty" validate:"omitempty,oneof=pending completed"` // defaults to completed
}

// FailedInstallment identifies an installment row whose persist failed
// during a best-effort batch write.
type FailedInstallment struct {
	InstallmentIndex int    `json:"installmentIndex"`
	Error            string `json:"error"`
}

// CreatePurchaseResult reports which rows were created and which failed.
// Row creation is independent per installment, not all-or-nothing.
type CreatePurchaseResult struct {
	Created []models.Transaction `json:"created"`
	Failed  []FailedInstallment  `json:"failed,omitempty"`
}

type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Merchant    *string          `json:"merchant,omitempty"`
	Date        *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsRecurring *bool            `json:"isRecurring,omitempty"`
	Status      *string          `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
}

type TransactionQuery struct {
	Status   *models.TransactionStatus
	BillKey  *string
	DateFrom *string
	DateTo   *string
	Limit    int
}
