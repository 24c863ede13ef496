// Package login drives the login screen: validation, password and federated
// sign-in, remember-me, role lookup and routing. It is independent of how the
// screen is rendered; a View and a Navigator are injected.
package login

import (
	"github.com/dmitrijs2005/secureguard/internal/client/remember"
)

// State is the position of the controller in a login attempt.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	AwaitingRoleLookup
	Routed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case AwaitingRoleLookup:
		return "awaiting_role_lookup"
	case Routed:
		return "routed"
	default:
		return "unknown"
	}
}

// Destination is where the user is sent once the screen is done.
type Destination int

const (
	None Destination = iota
	ParentHome
	ChildHome
	AccountVerification
	ModeSelection
)

func (d Destination) String() string {
	switch d {
	case ParentHome:
		return "parent_home"
	case ChildHome:
		return "child_home"
	case AccountVerification:
		return "account_verification"
	case ModeSelection:
		return "mode_selection"
	default:
		return "none"
	}
}

// Field identifies a form input.
type Field int

const (
	FieldEmail Field = iota + 1
	FieldPassword
)

func (f Field) String() string {
	switch f {
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	default:
		return "none"
	}
}

// Message is user-facing text shown by the View.
type Message string

const (
	MsgEnterValidEmail    Message = "Enter a valid email"
	MsgEnterValidPassword Message = "Enter a valid password"
	MsgEmailNotRegistered Message = "This email isn't registered"
	MsgWrongPassword      Message = "Wrong password"
	MsgAuthFailed         Message = "Authentication failed"
	MsgAuthSucceeded      Message = "Authentication succeeded"
	MsgOffline            Message = "You're offline.\nCheck your connection and try again."
	MsgPlatformMissing    Message = "Federated sign-in is not available on this device. Install or configure it and restart."
	MsgLookupFailed       Message = "Couldn't determine your account type. Please try again."
	MsgResetRequested     Message = "If this email is registered, a password reset link is on its way."
)

// Form is what the user submitted.
type Form struct {
	Email      string
	Password   string
	RememberMe bool
}

// View renders the controller's feedback.
type View interface {
	// Prefill restores the form from the remembered login.
	Prefill(l remember.Login)
	// SetFieldError marks f as invalid and moves focus to it.
	SetFieldError(f Field, msg Message)
	ClearFieldErrors()
	ShowToast(msg Message)
	// ShowInfo shows a message the user must acknowledge.
	ShowInfo(msg Message)
	ShowLoading()
	HideLoading()
	// DisableControls freezes every interactive control of the screen.
	DisableControls()
}

// Navigator leaves the screen for a destination.
type Navigator interface {
	Navigate(d Destination)
}

// Outcome is the result of one user action.
type Outcome struct {
	State       State
	Destination Destination
	Err         error
}
