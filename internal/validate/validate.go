package validate

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// bill keys are due-month identifiers: "2025-01"
	_ = Validate.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	})
}

// Struct validates a request DTO and normalizes the failure into the
// service error taxonomy.
func Struct(v any) error {
	if err := Validate.Struct(v); err != nil {
		return errs.NewValidationError(err.Error())
	}
	return nil
}

// BillKey validates a bill identifier taken from the URL path.
func BillKey(key string) error {
	if err := Validate.Var(key, "required,yearmonth"); err != nil {
		return errs.NewValidationError("billKey must be formatted as YYYY-MM")
	}
	return nil
}
