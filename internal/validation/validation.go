// Package validation wraps go-playground/validator with the rules shared by the
// web forms and the marketplace flow.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PhoneMessage is shown whenever a phone number is not exactly 10 digits
const PhoneMessage = "Please enter a valid 10-digit phone number"

var (
	validate  *validator.Validate
	phoneExpr = regexp.MustCompile(`^[0-9]{10}$`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phoneExpr.MatchString(fl.Field().String())
	})
}

// Error is a client-side validation failure. No request reaches the API when one is returned.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 1 {
		for _, msg := range e.Fields {
			return msg
		}
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates a tagged struct and returns an *Error on failure
func Struct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &Error{Fields: FormatValidationError(err)}
		}
		return err
	}
	return nil
}

// Phone checks a marketplace or registration phone number against the phone10 rule
func Phone(phone string) error {
	if err := validate.Var(strings.TrimSpace(phone), "required,phone10"); err != nil {
		return &Error{Fields: map[string]string{"phone": PhoneMessage}}
	}
	return nil
}

// IsValidationError reports whether err came from this package
func IsValidationError(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}

// FormatValidationError maps validator failures to user-facing messages keyed by field
func FormatValidationError(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fields
	}
	for _, fieldError := range verrs {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "email":
			fields[field] = "Invalid email format"
		case "phone10":
			fields[field] = PhoneMessage
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
		default:
			fields[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return fields
}
