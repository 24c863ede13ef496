package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err", "d", true)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 4)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "dbg", lines[0]["message"])
	assert.EqualValues(t, 1, lines[0]["a"])
	assert.Equal(t, "info", lines[1]["level"])
	assert.Equal(t, "two", lines[1]["b"])
	assert.Equal(t, "warn", lines[2]["level"])
	assert.Equal(t, "error", lines[3]["level"])
	assert.Equal(t, true, lines[3]["d"])
}

func TestZerologLogger_WithAndOddArgs(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf)).With("module", "login", "dangling")

	log.Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "login", lines[0]["module"])
	assert.Equal(t, "v", lines[0]["k"])
	_, ok := lines[0]["dangling"]
	assert.False(t, ok)
}

func TestNew_SelectsBackendAndLevel(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantSubs []string
		skipSubs []string
	}{
		{
			name:     "text is default",
			opts:     Options{Level: "info"},
			wantSubs: []string{"level=INFO", "msg=shown"},
			skipSubs: []string{"hidden"},
		},
		{
			name:     "json slog",
			opts:     Options{Level: "debug", Format: FormatJSON},
			wantSubs: []string{`"msg":"shown"`, `"msg":"hidden"`},
		},
		{
			name:     "zerolog json",
			opts:     Options{Level: "warn", Format: FormatZerolog},
			wantSubs: []string{`"level":"warn"`},
			skipSubs: []string{"hidden", "shown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Output = &buf
			log := New(tt.opts)

			log.Debug(context.Background(), "hidden")
			log.Info(context.Background(), "shown")
			log.Warn(context.Background(), "warned")

			out := buf.String()
			for _, s := range tt.wantSubs {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.skipSubs {
				assert.NotContains(t, out, s)
			}
		})
	}
}
