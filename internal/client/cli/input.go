package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// writePrompt renders "label: " or "label [current]: ".
func writePrompt(w io.Writer, label, current string) error {
	if current != "" {
		_, err := fmt.Fprintf(w, "%s [%s]: ", label, current)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: ", label)
	return err
}

// ReadLine prompts with label and reads one line from r with surrounding
// spaces removed. An empty answer keeps current. A last line that ends in
// EOF instead of a newline is still accepted.
func ReadLine(r *bufio.Reader, w io.Writer, label, current string) (string, error) {
	if err := writePrompt(w, label, current); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	if v := strings.TrimSpace(line); v != "" {
		return v, nil
	}
	return current, nil
}

// ReadSecret prompts with label and reads from the terminal without echo.
// The caller owns the returned slice and should clear it after use.
func ReadSecret(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return secret, nil
}
