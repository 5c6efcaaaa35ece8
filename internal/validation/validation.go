package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "authgate/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the JSON field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates any tagged input struct and returns field-keyed messages.
// It is independent of the HTTP layer so rules can be exercised directly.
func Struct(i interface{}) *apperrors.ValidationError {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}

	fields := make(map[string][]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = append(fields[fe.Field()], messageFor(fe))
	}
	return &apperrors.ValidationError{
		Message: "Data verification error",
		Fields:  fields,
	}
}

// Echo adapts Struct to the echo.Validator interface.
type Echo struct{}

// Validate implements echo.Validator.
func (Echo) Validate(i interface{}) error {
	if verr := Struct(i); verr != nil {
		return verr
	}
	return nil
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s must not be greater than %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
