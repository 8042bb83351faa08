package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a missing or malformed request field. It maps to HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// MissingFieldError is the ValidationError raised when a required field is absent.
type MissingFieldError = ValidationError

// MissingField builds the error for an absent field. message may be empty.
func MissingField(field, message string) *MissingFieldError {
	return &ValidationError{Field: field, Message: message}
}

var validate = validator.New()

// ValidateStruct applies `validate` struct tags and reports the first failure
// as a ValidationError naming the field's json name.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewAppError("VALIDATION_ERROR", err.Error(), ErrInvalidInput)
	}
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, jsonName(fe))
	}
	first := fieldErrs[0]
	if first.Tag() == "required" {
		return &ValidationError{
			Field:   jsonName(first),
			Message: "Missing required fields: " + strings.Join(names, ", "),
		}
	}
	return &ValidationError{
		Field:   jsonName(first),
		Message: fmt.Sprintf("invalid field %s: failed %q", jsonName(first), first.Tag()),
	}
}

// jsonName relies on the tag name func registered in init.
func jsonName(fe validator.FieldError) string {
	return fe.Field()
}

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}
