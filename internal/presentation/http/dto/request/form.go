// Package request holds the forms posted by the console pages.
package request

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidation makes gin's validator report fields by their form
// name, so errors line up with the rendered inputs, and adds the notblank
// rule for text that must not be only whitespace.
func RegisterValidation() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(apperror.JSONTagName("form", "json"))
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

// FormField describes one input of a form struct.
type FormField struct {
	Name     string
	Label    string
	Input    string
	Required bool
	Value    string
}

// Describe lists the inputs of form in declaration order. form must be a
// struct or a pointer to one whose fields carry form and label tags;
// embedded structs are flattened.
func Describe(form any) []FormField {
	return describe(reflect.Indirect(reflect.ValueOf(form)))
}

func describe(v reflect.Value) []FormField {
	t := v.Type()
	var fields []FormField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, describe(v.Field(i))...)
			continue
		}
		name := sf.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		input := sf.Tag.Get("input")
		if input == "" {
			input = "text"
		}
		fields = append(fields, FormField{
			Name:     name,
			Label:    sf.Tag.Get("label"),
			Input:    input,
			Required: slices.Contains(strings.Split(sf.Tag.Get("binding"), ","), "required"),
			Value:    fmt.Sprint(v.Field(i).Interface()),
		})
	}
	return fields
}

// Bind decodes the posted form into dst and validates it. It returns the
// failed fields with display messages.
func Bind(c *gin.Context, dst any) []apperror.FieldError {
	err := c.ShouldBind(dst)
	if err == nil {
		return nil
	}
	if fieldErrors := FieldErrors(dst, err); len(fieldErrors) > 0 {
		return fieldErrors
	}
	return []apperror.FieldError{{Message: "The form could not be read"}}
}

// FieldErrors renders validator errors of form using its label tags.
// Errors are keyed by input name.
func FieldErrors(form any, err error) []apperror.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	t := reflect.Indirect(reflect.ValueOf(form)).Type()

	fieldErrors := make([]apperror.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		label := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok && sf.Tag.Get("label") != "" {
			label = sf.Tag.Get("label")
		}
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   fe.Field(),
			Message: message(label, fe.Tag()),
		})
	}
	return fieldErrors
}

func message(label, tag string) string {
	switch tag {
	case "required", "notblank":
		return "Please enter the " + strings.ToLower(label)
	case "email":
		return "Please enter a valid email"
	case "numeric":
		return label + " must be a number"
	case "gte", "min":
		return label + " must not be negative"
	}
	return label + " is invalid"
}

// parseDecimal reads an already validated number.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}
