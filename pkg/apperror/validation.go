package apperror

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MessageFunc renders one failed validation rule for display.
type MessageFunc func(fe validator.FieldError) string

// FromValidationErrors converts validator errors into field errors keyed by
// their path below the validated struct, e.g. "items[0].proId".
func FromValidationErrors(err error, message MessageFunc) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   FieldPath(fe),
			Message: message(fe),
		})
	}
	return fieldErrors
}

// FieldPath drops the root struct name from a validator namespace.
func FieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// JSONTagName makes validator report fields by their json (or form) name.
func JSONTagName(tagKeys ...string) validator.TagNameFunc {
	return func(fld reflect.StructField) string {
		for _, key := range tagKeys {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	}
}
