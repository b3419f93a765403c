package servicepack

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// entryValidator returns the shared validator configured for entry payloads
func entryValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		// Report JSON field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Decimals reach validators as their exact string form
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("dgt0", decimalPositive)
		_ = v.RegisterValidation("dgte0", decimalNonNegative)
		validate = v
	})
	return validate
}

// decimalPositive reports whether a decimal field is greater than zero
func decimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

// decimalNonNegative reports whether a decimal field is zero or greater
func decimalNonNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

// ValidateStruct validates any tagged struct and converts failures into a
// VALIDATION_ERROR listing every offending field.
func ValidateStruct(label string, s any) error {
	err := entryValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return shared.NewValidationError("%s: %v", label, err)
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fieldPath(fe)+": "+validationMessage(fe))
	}
	return shared.NewValidationError("%s: %s", label, strings.Join(parts, "; "))
}

// ValidateEntry runs the per-kind validation rules on e
func ValidateEntry(e Entry) error {
	return ValidateStruct(e.Kind().Label(), e)
}

// fieldPath drops the struct name from the namespace ("Task.subtasks[1]" -> "subtasks[1]")
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " item(s)"
		}
		return "Must be at least " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "dgt0":
		return "Must be greater than 0"
	case "dgte0":
		return "Must be greater than or equal to 0"
	default:
		return "Invalid value"
	}
}
