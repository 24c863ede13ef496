// Package validate checks login form input before anything leaves the device.
package validate

import (
	"github.com/go-playground/validator/v10"
)

// Result is the outcome of a form check. Exactly one value is produced per
// check; the first failing rule wins.
type Result int

const (
	Valid Result = iota
	InvalidEmail
	InvalidPassword
	Offline
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case InvalidEmail:
		return "invalid_email"
	case InvalidPassword:
		return "invalid_password"
	case Offline:
		return "offline"
	default:
		return "unknown"
	}
}

// Connectivity reports whether the device currently has a usable network.
// Implementations must answer from local state only.
type Connectivity interface {
	IsOnline() bool
}

// ConnectivityFunc adapts a plain function to Connectivity.
type ConnectivityFunc func() bool

func (f ConnectivityFunc) IsOnline() bool { return f() }

// Validator runs the form checks in order: email syntax, password policy,
// connectivity.
type Validator struct {
	validate *validator.Validate
	password func(string) bool
	conn     Connectivity
}

// New builds a Validator. A nil password predicate falls back to
// DefaultPolicy; a nil Connectivity is treated as always online.
func New(password func(string) bool, conn Connectivity) *Validator {
	if password == nil {
		password = DefaultPolicy().Predicate()
	}
	if conn == nil {
		conn = ConnectivityFunc(func() bool { return true })
	}
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		password: password,
		conn:     conn,
	}
}

// IsValidEmail reports whether email is a syntactically valid address.
func (v *Validator) IsValidEmail(email string) bool {
	return v.validate.Var(email, "required,email") == nil
}

// Check validates one submission.
func (v *Validator) Check(email, password string) Result {
	if !v.IsValidEmail(email) {
		return InvalidEmail
	}
	if !v.password(password) {
		return InvalidPassword
	}
	if !v.conn.IsOnline() {
		return Offline
	}
	return Valid
}
