package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so clients see what they sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest returns one FieldError per failing field, or nil.
func validateRequest(req interface{}) ([]FieldError, error) {
	err := validate.Struct(req)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: tagMessage(fe),
		})
	}
	return fields, nil
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "url", "http_url":
		return "value is not a valid http or https URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "validation failed"
	}
}

func summarize(fields []FieldError) string {
	if len(fields) == 0 {
		return "Validation error"
	}
	return fmt.Sprintf("Invalid %s: %s", fields[0].Field, fields[0].Message)
}
