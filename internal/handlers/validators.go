package handlers

import (
	"fmt"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// financialYear validates "YYYY-YY" keys such as "2024-25".
func financialYear(fl validator.FieldLevel) bool {
	_, err := domain.ParseFinancialYear(fl.Field().String())
	return err == nil
}

// RegisterValidators adds the custom binding tags to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("financialyear", financialYear)
}
