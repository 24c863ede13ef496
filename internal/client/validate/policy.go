package validate

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// PasswordPolicy describes the minimum complexity a password must meet
// before it is sent to the identity provider.
type PasswordPolicy struct {
	MinLength          int
	RequireUppercase   bool
	RequireLowercase   bool
	RequireDigit       bool
	RequireSpecialChar bool
	// MaxRepeatedChars limits runs of the same character. Zero disables it.
	MaxRepeatedChars int
}

// DefaultPolicy matches the provider's own minimum of six characters.
func DefaultPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 6}
}

// Check returns nil when password satisfies the policy, otherwise an error
// describing the first rule it breaks.
func (p PasswordPolicy) Check(password string) error {
	if utf8.RuneCountInString(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}
	if p.RequireUppercase && !upperRe.MatchString(password) {
		return errors.New("password must contain at least one uppercase letter")
	}
	if p.RequireLowercase && !lowerRe.MatchString(password) {
		return errors.New("password must contain at least one lowercase letter")
	}
	if p.RequireDigit && !digitRe.MatchString(password) {
		return errors.New("password must contain at least one digit")
	}
	if p.RequireSpecialChar && !specialRe.MatchString(password) {
		return errors.New("password must contain at least one special character")
	}
	if p.MaxRepeatedChars > 0 && longestRun(password) > p.MaxRepeatedChars {
		return fmt.Errorf("password cannot contain more than %d consecutive repeated characters", p.MaxRepeatedChars)
	}
	return nil
}

// Predicate adapts the policy to the form Validator.
func (p PasswordPolicy) Predicate() func(string) bool {
	return func(password string) bool { return p.Check(password) == nil }
}

func longestRun(s string) int {
	var (
		longest, run int
		prev         rune = -1
	)
	for _, r := range s {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		longest = max(longest, run)
	}
	return longest
}
