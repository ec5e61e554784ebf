// Package validate provides a chainable Validator that collects field-level
// errors for the login, registration, profile and forgot-password forms.
//
// Each field keeps only its first violation: once a rule fails for a field,
// later rules for the same field are skipped.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrValidation matches every *Error with errors.Is.
var ErrValidation = errors.New("validation failed")

// Rule names reported in FieldError.Rule.
const (
	RuleRequired = "required"
	RuleEmail    = "email"
	RuleMinLen   = "min_length"
	RuleMatch    = "match"
	RulePhone    = "phone"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// phoneRegex is applied to the digits of the input only.
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	nonDigit   = regexp.MustCompile(`\D`)
)

// FieldError is a single field-level failure.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error is returned by Validator.Err and Validator.FirstErr.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the failure recorded for name, if any.
func (e *Error) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// Validator is not safe for concurrent use. Create one per operation.
type Validator struct {
	errs []FieldError
}

func (v *Validator) failed(field string) bool {
	for _, e := range v.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (v *Validator) add(field, rule, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Rule: rule, Message: message})
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if !v.failed(field) && strings.TrimSpace(value) == "" {
		v.add(field, RuleRequired, message)
	}
	return v
}

// Email fails unless value has the shape local@domain.tld.
func (v *Validator) Email(field, value, message string) *Validator {
	if !v.failed(field) && !IsEmail(value) {
		v.add(field, RuleEmail, message)
	}
	return v
}

// MinLen fails if the rune count of value is below min.
func (v *Validator) MinLen(field, value string, min int, message string) *Validator {
	if !v.failed(field) && utf8.RuneCountInString(value) < min {
		v.add(field, RuleMinLen, message)
	}
	return v
}

// MinLenTrimmed is MinLen after trimming surrounding whitespace.
func (v *Validator) MinLenTrimmed(field, value string, min int, message string) *Validator {
	return v.MinLen(field, strings.TrimSpace(value), min, message)
}

// Match fails if value differs from other.
func (v *Validator) Match(field, value, other, message string) *Validator {
	if !v.failed(field) && value != other {
		v.add(field, RuleMatch, message)
	}
	return v
}

// Phone fails unless the digits of value form a phone number. Empty values
// pass; combine with Required when the phone is mandatory.
func (v *Validator) Phone(field, value, message string) *Validator {
	if !v.failed(field) && value != "" && !IsPhone(value) {
		v.add(field, RulePhone, message)
	}
	return v
}

// Custom adds a failure if failed is true.
func (v *Validator) Custom(field string, failed bool, rule, message string) *Validator {
	if failed && !v.failed(field) {
		v.add(field, rule, message)
	}
	return v
}

// Err returns every recorded failure, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &Error{Fields: append([]FieldError(nil), v.errs...)}
}

// FirstErr returns only the first recorded failure, or nil.
func (v *Validator) FirstErr() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &Error{Fields: []FieldError{v.errs[0]}}
}

func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func IsPhone(s string) bool {
	return phoneRegex.MatchString(nonDigit.ReplaceAllString(s, ""))
}
