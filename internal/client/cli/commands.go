package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/secureguard/internal/client/login"
	"golang.org/x/term"
)

// Input seams replaced in tests.
var (
	readLine   = ReadLine
	readSecret = ReadSecret
	isTerminal = term.IsTerminal
)

// Login prompts for the email and password and submits them. Pressing Enter
// keeps the remembered value.
func (a *App) Login(ctx context.Context) error {
	if a.disabled {
		return a.report(login.Outcome{Err: login.ErrScreenDisabled})
	}

	email, err := readLine(a.reader, a.out, "Email", a.email)
	if err != nil {
		return err
	}
	a.email = email

	password, err := a.readPassword()
	if err != nil {
		return err
	}
	a.password = password

	return a.report(a.screen.Submit(ctx, login.Form{
		Email:      a.email,
		Password:   a.password,
		RememberMe: a.rememberMe,
	}))
}

// readPassword reads without echo on a terminal and falls back to a plain
// line when stdin is piped. An empty answer keeps the remembered password.
func (a *App) readPassword() (string, error) {
	if !isTerminal(int(os.Stdin.Fd())) {
		return readLine(a.reader, a.out, "Password", a.password)
	}
	pw, err := readSecret(a.out, "Password")
	if err != nil {
		return "", err
	}
	defer clear(pw)
	if len(pw) == 0 {
		return a.password, nil
	}
	return string(pw), nil
}

// Google runs the federated sign-in.
func (a *App) Google(ctx context.Context) error {
	return a.report(a.screen.FederatedSignIn(ctx))
}

// Forgot asks for a password reset email.
func (a *App) Forgot(ctx context.Context) error {
	if a.disabled {
		return a.report(login.Outcome{Err: login.ErrScreenDisabled})
	}
	email, err := readLine(a.reader, a.out, "Account email", a.email)
	if err != nil {
		return err
	}
	return a.report(a.screen.RecoverPassword(ctx, email))
}

// SignUp leaves for account creation.
func (a *App) SignUp(context.Context) error {
	return a.report(a.screen.SignUp())
}

// Remember toggles the remember-me box. The choice is stored with the next
// login attempt.
func (a *App) Remember(_ context.Context, on bool) error {
	if a.disabled {
		return a.report(login.Outcome{Err: login.ErrScreenDisabled})
	}
	a.rememberMe = on
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(a.out, "Remember me: %s\n", state)
	return nil
}

// Forget erases the remembered login from this device.
func (a *App) Forget(ctx context.Context) error {
	if a.disabled {
		return a.report(login.Outcome{Err: login.ErrScreenDisabled})
	}
	if err := a.remember.Forget(ctx); err != nil {
		a.logger.Error(ctx, "could not forget remembered login", "error", err)
		return err
	}
	a.email, a.password, a.rememberMe = "", "", false
	fmt.Fprintln(a.out, "Remembered login erased.")
	return nil
}

// report prints what the controller left unsaid and returns the outcome error.
func (a *App) report(o login.Outcome) error {
	switch {
	case errors.Is(o.Err, login.ErrScreenDisabled):
		fmt.Fprintln(a.out, "The login screen is disabled.")
	case errors.Is(o.Err, login.ErrBusy):
		fmt.Fprintln(a.out, "Another request is still running.")
	case o.Err != nil:
		a.logger.Debug(context.Background(), "command finished", "state", o.State.String(), "error", o.Err)
	}
	return o.Err
}
