package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/secureguard/internal/client/login"
	"github.com/dmitrijs2005/secureguard/internal/client/remember"
)

// Prefill restores the form from the remembered login.
func (a *App) Prefill(l remember.Login) {
	a.rememberMe = l.RememberMe
	a.email = l.Email
	a.password = l.Password
	if l.RememberMe && l.Email != "" {
		fmt.Fprintf(a.out, "Remembered login: %s\n", l.Email)
	}
}

func (a *App) SetFieldError(f login.Field, msg login.Message) {
	fmt.Fprintf(a.out, "  %s: %s\n", f, msg)
}

func (a *App) ClearFieldErrors() {}

func (a *App) ShowToast(msg login.Message) {
	fmt.Fprintf(a.out, "» %s\n", msg)
}

func (a *App) ShowInfo(msg login.Message) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintf(a.out, "%s\n%s\n%s\n", rule, msg, rule)
}

func (a *App) ShowLoading() {
	fmt.Fprintln(a.out, "Please wait...")
}

func (a *App) HideLoading() {}

func (a *App) DisableControls() {
	a.disabled = true
}

// Navigate leaves the login screen.
func (a *App) Navigate(d login.Destination) {
	fmt.Fprintf(a.out, "Opening %s\n", destinationTitle(d))
}

func destinationTitle(d login.Destination) string {
	switch d {
	case login.ParentHome:
		return "parent home"
	case login.ChildHome:
		return "child home"
	case login.AccountVerification:
		return "account verification"
	case login.ModeSelection:
		return "sign-up"
	default:
		return d.String()
	}
}

func (a *App) getStatus() string {
	if a.disabled {
		return "(disabled)"
	}
	s := a.email
	if a.rememberMe {
		if s != "" {
			s += " "
		}
		s += "remembered"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
