// Package validation configures go-playground/validator for request structs
// and turns its errors into the field-error map returned to clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// New returns a validator that reports fields by their json name and knows
// the "notblank" and "password" tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// StrongPassword reports whether pw satisfies the password policy: between
// MinPasswordLength characters and MaxPasswordBytes bytes, with at least one
// letter, one digit and one special character.
func StrongPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < MinPasswordLength || len(pw) > MaxPasswordBytes {
		return false
	}

	var letter, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			special = true
		}
	}
	return letter && digit && special
}

// Fields converts a validator error into a field -> messages map. It returns
// nil when err is not a validator.ValidationErrors.
func Fields(err error) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], Message(fe))
	}
	return out
}

// fieldMessages overrides the generic message for a field/tag pair.
var fieldMessages = map[string]string{
	"email.required":            "Please enter your email.",
	"email.email":               "Please enter a valid email address.",
	"name.required":             "Please enter your name.",
	"role.required":             "Please select a role.",
	"password.required":         "Please enter your password.",
	"password.password":         "Password does not meet the security requirements (at least 8 characters including letters, numbers and special characters).",
	"password_confirm.required": "Please confirm your password.",
}

// Message renders a single field error.
func Message(fe validator.FieldError) string {
	tag := fe.Tag()
	if tag == "notblank" {
		tag = "required"
	}
	if msg, ok := fieldMessages[fe.Field()+"."+tag]; ok {
		return msg
	}

	field := fe.Field()
	switch tag {
	case "required":
		return field + " is required."
	case "email":
		return field + " must be a valid email."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s).", field, fe.Tag())
	}
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
