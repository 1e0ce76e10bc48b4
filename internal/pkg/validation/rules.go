package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Phone numbers are stored as 6 to 15 digits, no separators
	PhonePattern = `^\d{6,15}$`

	// Password length bounds. bcrypt reads at most 72 bytes.
	PasswordMinLength = 8
	PasswordMaxBytes  = 72

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100

	// Mentorship message bounds
	MessageMinLength = 1
	MessageMaxLength = 2000
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Phone *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// StringValidation checks a single string value against a set of rules
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length in runes
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in runes
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)

	if value == "" {
		return !v.Required
	}

	n := utf8.RuneCountInString(value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}

	return true
}

// ValidEmail reports whether email looks like an address
func ValidEmail(email string) bool {
	return NewStringValidation(email).WithPattern(CompiledPatterns.Email).Validate()
}

// ValidPhone reports whether phone is a bare digit string of acceptable length
func ValidPhone(phone string) bool {
	return NewStringValidation(phone).WithPattern(CompiledPatterns.Phone).Validate()
}

// ValidPassword reports whether password has at least PasswordMinLength
// characters and fits in PasswordMaxBytes
func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= PasswordMinLength && len(password) <= PasswordMaxBytes
}

// ValidName reports whether name is within the accepted length
func ValidName(name string) bool {
	return NewStringValidation(name).WithMinLength(NameMinLength).WithMaxLength(NameMaxLength).Validate()
}

// ValidMessage reports whether a mentorship message is within bounds
func ValidMessage(message string) bool {
	return NewStringValidation(message).WithMinLength(MessageMinLength).WithMaxLength(MessageMaxLength).Validate()
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
