package handlers

import "github.com/go-playground/validator/v10"

// Validator adapts go-playground/validator to echo.Validator so handlers can
// call c.Validate on bound DTOs.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

func (val *Validator) Validate(i any) error {
	return val.v.Struct(i)
}
