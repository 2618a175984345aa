package middleware

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var orderIDPattern = regexp.MustCompile(`^[A-Z0-9\-_]{1,50}$`)

// SetupValidator registers the custom binding rules and makes validation
// errors report json field names instead of Go struct fields.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("uri"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("order_id", validOrderID); err != nil {
		return err
	}
	return v.RegisterValidation("lowercase_uuid", validLowercaseUUID)
}

// validOrderID enforces the order reference format: uppercase alphanumeric
// plus dash and underscore, 1 to 50 characters.
func validOrderID(fl validator.FieldLevel) bool {
	return orderIDPattern.MatchString(fl.Field().String())
}

// validLowercaseUUID accepts only the lowercase canonical UUID form, so the
// same ID always has one spelling in keys, logs and events.
func validLowercaseUUID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s != strings.ToLower(s) {
		return false
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return parsed.String() == s
}
