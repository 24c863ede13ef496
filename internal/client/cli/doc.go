// Package cli provides the interactive SecureGuard login screen for terminals.
//
// It wires configuration, the local preference store, the identity provider,
// the role directory and the federated sign-in flow into a login.Controller,
// and renders the controller's feedback as terminal lines. The App type is
// both the controller's View and its Navigator.
//
// Commands:
//   - login / google: password or federated sign-in
//   - forgot: request a password reset email
//   - signup: leave for account creation
//   - remember on|off, forget: manage the remembered login
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// the screen routes to a destination. See runREPL for details.
package cli
