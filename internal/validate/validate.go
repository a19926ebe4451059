// Package validate holds the pure input checks for identity and interaction
// fields. All checks are total and side-effect free.
package validate

import (
	"regexp"
	"strings"

	"movierec-backend/internal/errs"
)

// Policy selects the password rule set.
type Policy string

const (
	// PolicyBasic requires length >= 9 with lowercase, uppercase and digit.
	PolicyBasic Policy = "basic"
	// PolicyStrict additionally requires one non-alphanumeric character.
	PolicyStrict Policy = "strict"
)

// Only gmail, hotmail and yahoo accounts are accepted. This is a deliberate
// allow-list, not a general email validator.
var emailRe = regexp.MustCompile(`^[\w.-]+@(gmail|hotmail|yahoo)\.com$`)

var phoneRe = regexp.MustCompile(`^\d{10,15}$`)

// Email reports whether s is a well-formed address on an allow-listed domain.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Phone reports whether s is 10 to 15 decimal digits.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// Password reports whether s satisfies the given policy: at least 9
// characters with one lowercase letter, one uppercase letter and one digit;
// PolicyStrict also demands one non-alphanumeric character.
func Password(s string, p Policy) bool {
	if len(s) < 9 {
		return false
	}
	var lower, upper, digit, other bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	if !(lower && upper && digit) {
		return false
	}
	if p == PolicyStrict && !other {
		return false
	}
	return true
}

// Rating reports whether v lies in the inclusive range [1.0, 5.0].
// Out-of-range values are rejected, never clamped.
func Rating(v float64) bool {
	return v >= 1.0 && v <= 5.0
}

// SignupInput carries the identity fields checked at registration.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Signup runs the identity checks fail-fast in field order and returns the
// first field-level error, or nil when every field passes.
func Signup(in SignupInput, p Policy) error {
	if strings.TrimSpace(in.Name) == "" {
		return errs.Validation("name", "must not be empty")
	}
	if !Email(in.Email) {
		return errs.Validation("email", "only gmail, hotmail and yahoo addresses are allowed")
	}
	if !Password(in.Password, p) {
		if p == PolicyStrict {
			return errs.Validation("password", "must be at least 9 characters with 1 uppercase, 1 lowercase, 1 number and 1 symbol")
		}
		return errs.Validation("password", "must be at least 9 characters with 1 uppercase, 1 lowercase and 1 number")
	}
	if !Phone(in.Phone) {
		return errs.Validation("phone", "must be 10 to 15 digits")
	}
	return nil
}
