package shared

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// fieldValidator backs the format rules (email, url) so that domain checks and
// request binding agree on what a valid value is.
var fieldValidator = validator.New()

// Violation is a single field-level constraint failure
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found while validating an entity
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Violations collects constraint failures before they are turned into an error
type Violations []Violation

// Add records a violation for the given field
func (v *Violations) Add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

// Check records the violation when ok is false
func (v *Violations) Check(ok bool, field, message string) {
	if !ok {
		v.Add(field, message)
	}
}

// Merge appends the violations of a nested validation error, prefixing field names
// unless prefix is empty. Errors that are not validation errors are ignored.
func (v *Violations) Merge(prefix string, err error) {
	verr, ok := err.(*ValidationError)
	if !ok {
		return
	}
	for _, item := range verr.Violations {
		field := item.Field
		if prefix != "" {
			field = prefix + "." + field
		}
		v.Add(field, item.Message)
	}
}

// Err returns nil when no violation was recorded
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Violations: append([]Violation(nil), v...)}
}

// NotBlank reports whether s contains something other than whitespace
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// LengthBetween reports whether the rune length of s lies in [min, max].
// A max of zero disables the upper bound.
func LengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	if n < min {
		return false
	}
	return max == 0 || n <= max
}

// IsEmail reports whether s is a syntactically valid email address
func IsEmail(s string) bool {
	return fieldValidator.Var(s, "required,email") == nil
}

// IsURL reports whether s is an absolute URL
func IsURL(s string) bool {
	return fieldValidator.Var(s, "required,url") == nil
}

// LengthMessage formats the usual "between min and max characters" message
func LengthMessage(label string, min, max int) string {
	if max == 0 {
		return fmt.Sprintf("%s doit faire au moins %d caractères", label, min)
	}
	return fmt.Sprintf("%s doit faire entre %d et %d caractères", label, min, max)
}
