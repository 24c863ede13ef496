package login

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secureguard/internal/client/validate"
)

var (
	// ErrBusy is returned while another action is still in flight.
	ErrBusy = errors.New("login: another attempt is in flight")
	// ErrScreenDisabled is returned for every action after the platform gate
	// failed at start.
	ErrScreenDisabled = errors.New("login: screen is disabled")
	// ErrRouted is returned once the screen has handed off to a destination.
	ErrRouted = errors.New("login: already routed")
)

// ValidationError is a rejected form, before anything was sent.
type ValidationError struct {
	Result validate.Result
}

func (e *ValidationError) Error() string {
	return "login: invalid input: " + e.Result.String()
}

// FederatedSignInError is a failed or canceled federated sign-in.
type FederatedSignInError struct {
	Canceled bool
	Err      error
}

func (e *FederatedSignInError) Error() string {
	if e.Canceled {
		return "login: federated sign-in canceled"
	}
	return fmt.Sprintf("login: federated sign-in failed: %v", e.Err)
}

func (e *FederatedSignInError) Unwrap() error { return e.Err }

// LookupError is a failed or canceled role lookup after a successful sign-in.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("login: role lookup failed: %v", e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
