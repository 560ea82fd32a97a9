package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest checks the validate tags of a decoded request body.
func ValidateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var details strings.Builder
	for _, fe := range fieldErrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&details, "%s is required", fe.Field())
		case "min":
			fmt.Fprintf(&details, "%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			fmt.Fprintf(&details, "%s must be at most %s", fe.Field(), fe.Param())
		default:
			fmt.Fprintf(&details, "%s failed %s", fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("invalid request: %s", details.String())
}
