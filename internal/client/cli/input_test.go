package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		current    string
		want       string
		wantPrompt string
	}{
		{"trimmed answer", "  alice@example.com \n", "", "alice@example.com", "Email: "},
		{"answer replaces current", "bob@example.com\n", "alice@example.com", "bob@example.com", "Email [alice@example.com]: "},
		{"enter keeps current", "\n", "alice@example.com", "alice@example.com", "Email [alice@example.com]: "},
		{"last line without newline", "carol@example.com", "", "carol@example.com", "Email: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := ReadLine(bufio.NewReader(strings.NewReader(tt.input)), &out, "Email", tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPrompt, out.String())
		})
	}
}

func TestReadLine_EOFWithoutInput(t *testing.T) {
	var out bytes.Buffer
	_, err := ReadLine(bufio.NewReader(strings.NewReader("")), &out, "Email", "kept@example.com")
	require.ErrorIs(t, err, io.EOF)
}

func TestReadSecret(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("hunter22"), nil }

	var out bytes.Buffer
	secret, err := ReadSecret(&out, "Password")
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter22"), secret)
	assert.Equal(t, "Password: \n", out.String())
}

func TestReadSecret_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	boom := errors.New("inappropriate ioctl for device")
	readPassword = func(int) ([]byte, error) { return nil, boom }

	var out bytes.Buffer
	_, err := ReadSecret(&out, "Password")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read password")
}
