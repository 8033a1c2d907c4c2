package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// positiveDecimal validates that a decimal.Decimal field is strictly greater
// than zero. Zero-amount transactions and contributions carry no meaning.
func positiveDecimal(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return value.IsPositive()
}

// RegisterCustomValidators installs the binding validators the request DTOs
// rely on. Must run once before the router starts serving.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("positivedecimal", positiveDecimal)
}
