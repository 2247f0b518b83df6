package dto

import (
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	Name     string          `json:"name" validate:"required"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency,omitempty"`
}
