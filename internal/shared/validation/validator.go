package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// New returns a validator that reports json field names and knows the "digits" tag.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("digits", func(fl validatorv10.FieldLevel) bool {
		return digitsOnly.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates value and converts failures into an apperrors validation error
// carrying one violation per rejected field.
func Struct(v *validatorv10.Validate, value any) error {
	if v == nil {
		v = New()
	}
	err := v.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validatorv10.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err, "%s", err.Error())
	}
	violations := make([]apperrors.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, apperrors.FieldViolation{
			Field:   fieldPath(fe),
			Message: describe(fe),
		})
	}
	return apperrors.Validation(violations...)
}

// Fields flattens violations into the map shape used by problem responses.
func Fields(violations []apperrors.FieldViolation) map[string]string {
	out := make(map[string]string, len(violations))
	for _, violation := range violations {
		out[violation.Field] = violation.Message
	}
	return out
}

func fieldPath(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func describe(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "len":
		return "must have exactly " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "digits":
		return "must contain only digits"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
