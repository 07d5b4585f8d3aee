// Package validator wraps go-playground/validator and maps violations to
// JSON field names with friendly messages.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// errorMessages maps validation tags to custom error messages.
var errorMessages = map[string]string{
	"required": "The %s field is required.",
	"email":    "The %s must be a valid email address.",
	"min":      "The %s must be at least %s characters.",
	"max":      "The %s must not be greater than %s characters.",
	"eqfield":  "The %s confirmation does not match.",
}

// parseMessage constructs a friendly error message for a violation.
func parseMessage(jsonTag string, e validator.FieldError) string {
	if msg, exists := errorMessages[e.Tag()]; exists {
		placeholderCount := strings.Count(msg, "%s")
		if placeholderCount == 1 {
			return fmt.Sprintf(msg, jsonTag)
		} else if placeholderCount == 2 {
			return fmt.Sprintf(msg, jsonTag, e.Param())
		}
	}
	return fmt.Sprintf("The %s field is invalid.", jsonTag)
}

// ValidateStruct validates a struct and returns a map of JSON field names
// to friendly error messages. An empty map means the struct is valid.
func ValidateStruct(s any) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			structType := reflect.TypeOf(s)
			if structType.Kind() == reflect.Ptr {
				structType = structType.Elem()
			}
			for _, e := range validationErrs {
				field, _ := structType.FieldByName(e.StructField())
				jsonTag := field.Tag.Get("json")
				if jsonTag == "" {
					jsonTag = e.StructField()
				} else {
					jsonTag = strings.Split(jsonTag, ",")[0]
				}
				if _, seen := validationErrors[jsonTag]; !seen {
					validationErrors[jsonTag] = parseMessage(jsonTag, e)
				}
			}
		}
	}

	return validationErrors
}
