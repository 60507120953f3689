// Package validator wraps go-playground/validator for declarative struct
// validation with standardized error formatting. Field names in messages use
// the struct's yaml (or envconfig) tag, so errors point at the key a user
// actually wrote in a chain file or environment.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error of the chain returned when validation fails.
var ErrValidationFailed = errors.New("struct validation failed")

// validator is the package singleton, initialized on load.
var validator *gvalidator.Validate

// errStringFormat describes a single failed rule.
//
// Example: "'rest': value '' does not meet the requirements for the 'required' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
	validator.RegisterTagNameFunc(fieldName)
}

// fieldName resolves the name used in error messages for a struct field.
func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"yaml", "envconfig"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// formatError turns validator errors into a multi-error chain rooted at
// ErrValidationFailed. Other errors are returned unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Namespace(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` tags.
//
//	if err := validator.Validate(chain); errors.Is(err, validator.ErrValidationFailed) {
//	    // reject the chain entry
//	}
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
