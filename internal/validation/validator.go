// Package validation normalizes and validates raw form input before a
// submission record is built. Errors are collected per field, in declaration
// order, and the request is rejected if any rule fails.
package validation

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/formgate/formgate-backend/types"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
	phonePattern  = regexp.MustCompile(`^[0-9 +()\-]*$`)
)

// Rule checks a single already-trimmed field value. A non-empty return is the
// user-facing message for the failure.
type Rule func(value string) string

// FieldSpec describes how one form field is validated and normalized.
type FieldSpec struct {
	Name     string
	Required bool
	Rules    []Rule
	// Normalize runs only after all rules pass for the field.
	Normalize func(value string) string
}

// Validate applies specs in order against raw input and returns the normalized
// values, or the full ordered list of field errors. All-or-nothing: every
// failing rule contributes an error and nothing is persisted on failure.
func Validate(specs []FieldSpec, input map[string]string) (map[string]string, []types.FieldError) {
	normalized := make(map[string]string, len(specs))
	var errs []types.FieldError

	for _, spec := range specs {
		value := strings.TrimSpace(input[spec.Name])

		if value == "" {
			if spec.Required {
				errs = append(errs, types.FieldError{
					Field:   spec.Name,
					Message: fmt.Sprintf("%s is required", spec.Name),
				})
			}
			continue
		}

		failed := false
		for _, rule := range spec.Rules {
			if msg := rule(value); msg != "" {
				errs = append(errs, types.FieldError{Field: spec.Name, Message: msg})
				failed = true
			}
		}
		if failed {
			continue
		}

		if spec.Normalize != nil {
			value = spec.Normalize(value)
		}
		normalized[spec.Name] = value
	}

	return normalized, errs
}

// MinLen requires at least n characters.
func MinLen(n int) Rule {
	return func(value string) string {
		if len(value) < n {
			return fmt.Sprintf("must be at least %d characters", n)
		}
		return ""
	}
}

// MaxLen caps the field at n characters.
func MaxLen(n int) Rule {
	return func(value string) string {
		if len(value) > n {
			return fmt.Sprintf("must be at most %d characters", n)
		}
		return ""
	}
}

// EmailSyntax requires standard email address syntax.
func EmailSyntax(value string) string {
	if !emailPattern.MatchString(value) {
		return "must be a valid email address"
	}
	return ""
}

// ExactDigits requires the value to be exactly n digits.
func ExactDigits(n int) Rule {
	return func(value string) string {
		if len(value) != n || !digitsPattern.MatchString(value) {
			return fmt.Sprintf("must be exactly %d digits", n)
		}
		return ""
	}
}

// PhoneCharset restricts the value to digits, spaces and +()- characters.
func PhoneCharset(value string) string {
	if !phonePattern.MatchString(value) {
		return "contains invalid characters"
	}
	return ""
}

// EscapeHTML escapes markup-significant characters in user text.
func EscapeHTML(value string) string {
	return html.EscapeString(value)
}

// NormalizeEmail canonicalizes an address to its trimmed lowercase form.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ContactFields is the field set of the main contact form.
func ContactFields() []FieldSpec {
	return []FieldSpec{
		{Name: "name", Required: true, Rules: []Rule{MaxLen(100)}, Normalize: EscapeHTML},
		{Name: "email", Required: true, Rules: []Rule{EmailSyntax, MaxLen(255)}, Normalize: NormalizeEmail},
		{Name: "phone", Required: false, Rules: []Rule{MaxLen(20), PhoneCharset}},
		{Name: "category", Required: true, Normalize: EscapeHTML},
		{Name: "age", Required: true, Normalize: EscapeHTML},
		{Name: "message", Required: true, Normalize: EscapeHTML},
	}
}

// SignupFields is the field set of the signup form.
func SignupFields() []FieldSpec {
	return []FieldSpec{
		{Name: "name", Required: true, Rules: []Rule{MinLen(3), MaxLen(100)}, Normalize: EscapeHTML},
		{Name: "email", Required: true, Rules: []Rule{EmailSyntax, MaxLen(255)}, Normalize: NormalizeEmail},
		{Name: "phone", Required: true, Rules: []Rule{ExactDigits(10)}},
	}
}

// SubdomainContactFields is the field set of the sub-domain contact form.
func SubdomainContactFields() []FieldSpec {
	return []FieldSpec{
		{Name: "name", Required: true, Rules: []Rule{MaxLen(100)}, Normalize: EscapeHTML},
		{Name: "email", Required: true, Rules: []Rule{EmailSyntax, MaxLen(255)}, Normalize: NormalizeEmail},
		{Name: "phone", Required: false, Rules: []Rule{MaxLen(20), PhoneCharset}},
	}
}
