package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var global = New()

func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Validate checks struct tags and collapses the first violation into a
// user-correctable message.
func Validate(structure any) error {
	return parseValidationErrors(global.Struct(structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return err
	}

	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = "field is required"
	case "email":
		msg = "must be a valid email address"
	case "oneof":
		msg = "value is not one of the allowed options"
	case "min", "gte", "gt", "gtfield":
		msg = "value is below the allowed minimum"
	case "max", "lte", "lt":
		msg = "value exceeds the allowed maximum"
	case "lowercase":
		msg = "must be lowercase"
	case "excludesall":
		msg = "contains forbidden characters"
	default:
		msg = "invalid value"
	}
	return errors.New(ve.Field() + ": " + msg)
}
