// file: internals/helpers/validator.go
package helper

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"creditrating_backend/internals/features/rating/scoring"
	"creditrating_backend/internals/helpers/apperror"
)

var nicPattern = regexp.MustCompile(`^(\d{9}[xXvV]|\d{12})$`)

// ValidNIC accepts the old 9 digit + letter and the new 12 digit formats.
func ValidNIC(s string) bool {
	return nicPattern.MatchString(strings.TrimSpace(s))
}

// NewValidator returns a validator with the rating tags registered:
// nic and customer_type.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nic", func(fl validator.FieldLevel) bool {
		return ValidNIC(fl.Field().String())
	})
	_ = v.RegisterValidation("customer_type", func(fl validator.FieldLevel) bool {
		_, ok := scoring.NormalizeCustomerType(fl.Field().String())
		return ok
	})
	return v
}

// ValidateStruct runs v and turns failures into a Validation apperror with
// one message per json field.
func ValidateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.Validation("invalid input: %v", err)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fieldMessage(fe)
	}
	first := ve[0]
	return apperror.ValidationFields(fmt.Sprintf("%s: %s", first.Field(), fieldMessage(first)), fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "nic":
		return "must be 9 digits followed by X/V or 12 digits"
	case "customer_type":
		return "must be new or existing"
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
