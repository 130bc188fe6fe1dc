package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	// Types carrying their own Validate method, such as transaction types.
	if err := v.RegisterValidation("enum", validateEnum); err != nil {
		panic(fmt.Sprintf("register enum validator: %v", err))
	}
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(s any) error {
	return rv.v.Struct(s)
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validationDetails(err error) ([]fieldError, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}
	details := make([]fieldError, len(validationErrs))
	for i, fe := range validationErrs {
		details[i] = fieldError{Field: fe.Field(), Message: validationErrorMessage(fe)}
	}
	return details, true
}

func validationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "enum":
		return fmt.Sprintf("invalid value: %v", fe.Value())
	default:
		return "is invalid"
	}
}

func validateEnum(fl validator.FieldLevel) bool {
	type enum interface {
		Validate() error
	}

	value, ok := fl.Field().Interface().(enum)
	if !ok {
		return false
	}
	return value.Validate() == nil
}
