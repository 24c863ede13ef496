package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Login(ctx context.Context) error
	Google(ctx context.Context) error
	Forgot(ctx context.Context) error
	SignUp(ctx context.Context) error
	Remember(ctx context.Context, on bool) error
	Forget(ctx context.Context) error
	done() bool
}

// runREPL starts a simple read–eval–print loop for the login screen.
//
// It reads a line from r, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits at end of input, when the user types
// "exit" or "quit", or once a command has taken the user off the screen.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	help               show available commands
//	login              sign in with email and password
//	google             sign in with a Google account
//	forgot             request a password reset email
//	signup             create a new account
//	remember on|off    toggle the remember-me box
//	forget             erase the remembered login
//	status             redraw the prompt
//	exit | quit        leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for !a.done() {
		printlnFn(fmt.Sprintf("sg %s > ", statusFn()))
		parts, ok := readCommand(r)
		if !ok {
			return
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: login, google, forgot, signup, remember on|off, forget, status, exit")

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.Google(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "signup":
			_ = a.SignUp(ctx)

		case "remember":
			if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
				printlnFn("Usage: remember on|off")
				continue
			}
			_ = a.Remember(ctx, args[0] == "on")

		case "forget":
			_ = a.Forget(ctx)

		case "status":
			// the prompt is printed on the next iteration

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// readCommand reads the next command line from r. Commands share r with the
// prompts they run, so nothing may be buffered beyond the current line.
func readCommand(r *bufio.Reader) ([]string, bool) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return nil, false
	}
	return strings.Fields(line), true
}
