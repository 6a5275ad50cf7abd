package validation

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
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Error carries per-field messages keyed by the JSON field name.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func New(message string, fields map[string]string) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Message: message, Fields: fields}
}

// Field is a single-field validation failure.
func Field(field, message string) *Error {
	return &Error{Message: message, Fields: map[string]string{field: message}}
}

func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fromValidator(verrs)
		}
		return err
	}
	return nil
}

func IsValidationError(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

func fromValidator(errs validator.ValidationErrors) *Error {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "email":
			fields[field] = "Please enter a valid email address."
		case "uuid", "uuid4":
			fields[field] = fmt.Sprintf("%s must be a valid UUID", field)
		case "min":
			if fe.Kind() == reflect.String {
				fields[field] = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
			} else {
				fields[field] = fmt.Sprintf("%s must be at least %s", field, fe.Param())
			}
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s", field, fe.Param())
		case "eqfield":
			fields[field] = fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		case "url":
			fields[field] = fmt.Sprintf("%s must be a valid URL", field)
		default:
			fields[field] = fmt.Sprintf("%s validation failed on '%s' tag", field, fe.Tag())
		}
	}

	msg := "Validation failed"
	if len(fields) == 1 {
		for _, m := range fields {
			msg = m
		}
	}
	return &Error{Message: msg, Fields: fields}
}

// EmailDomainAllowed reports whether email's domain is outside blocked.
// Subdomains of a blocked domain are blocked too.
func EmailDomainAllowed(email string, blocked []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	for _, b := range blocked {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if domain == b || strings.HasSuffix(domain, "."+b) {
			return false
		}
	}
	return true
}
