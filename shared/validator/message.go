package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"gt":          "{field} must be greater than {param}",
	"min":         "{field} must be greater than or equal to {param}",
	"max":         "{field} must be less than or equal to {param}",
	"len":         "{field} must be exactly {param} characters long",
	"oneof":       "{field} must be one of {param}",
	"email":       "{field} must be a valid email address",
	"numeric":     "{field} must contain digits only",
	"unique":      "{field} must not contain duplicate values",
	"notblank":    "{field} must not be blank",
	"datetime":    "{field} must match the format {param}",
	"dive":        "{field} contains an invalid value",
	"nefield":     "{field} must be different from {param}",
	"mimetypes":   "{field} must be one of the types {param}",
	"maxfilesize": "{field} must not be larger than {param} MB",
}

// message renders the first validation failure that has a template, so a request
// with several problems reports one readable error at a time.
func message(err error) string {
	var validationErrors val.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	for _, fieldErr := range validationErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template)
	}

	return validationErrors.Error()
}
