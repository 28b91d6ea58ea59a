package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationDetail flattens validator errors into a single human-readable
// detail string for 422 responses.
func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid request"
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s: field required", field))
		case "email":
			details = append(details, fmt.Sprintf("%s: value is not a valid email address", field))
		default:
			details = append(details, fmt.Sprintf("%s: invalid value", field))
		}
	}
	return strings.Join(details, "; ")
}
