package dto

import (
	"github.com/shopspring/decimal"
)

type CreateCardRequest struct {
	AccountID   string          `json:"accountId" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	LastDigits  string          `json:"lastDigits" validate:"omitempty,len=4,numeric"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	ClosingDay  int             `json:"closingDay" validate:"required,min=1,max=31"`
	DueDay      int             `json:"dueDay" validate:"required,min=1,max=31"`
}

// UpdateCardRequest carries optional fields; nil means "leave unchanged".
// Changing closingDay/dueDay affects future bucketing only: persisted bill
// dates on existing rows are not recalculated.
type UpdateCardRequest struct {
	Name        *string          `json:"name,omitempty"`
	LastDigits  *string          `json:"lastDigits,omitempty" validate:"omitempty,len=4,numeric"`
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"`
	ClosingDay  *int             `json:"closingDay,omitempty" validate:"omitempty,min=1,max=31"`
	DueDay      *int             `json:"dueDay,omitempty" validate:"omitempty,min=1,max=31"`
}

type LimitSummary struct {
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	UsedLimit      decimal.Decimal `json:"usedLimit"`
	AvailableLimit decimal.Decimal `json:"availableLimit"`
}
