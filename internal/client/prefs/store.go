// Package prefs is the process-wide local preference store of the client.
//
// Values are stored as raw bytes keyed by well-known names (see the Pref*
// constants in package common). Reads take a default that is returned when
// the key has never been written.
package prefs

import (
	"context"
	"fmt"
	"strconv"
)

// Reader reads typed preferences.
type Reader interface {
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	GetString(ctx context.Context, key string, def string) (string, error)
}

// Writer writes typed preferences.
type Writer interface {
	SetBool(ctx context.Context, key string, value bool) error
	SetString(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Store is a Reader and Writer that can also apply several writes atomically.
type Store interface {
	Reader
	Writer
	// Batch runs fn with a Writer whose writes become visible together, or
	// not at all when fn returns an error.
	Batch(ctx context.Context, fn func(w Writer) error) error
}

func encodeBool(v bool) []byte {
	return []byte(strconv.FormatBool(v))
}

func decodeBool(key string, raw []byte) (bool, error) {
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, fmt.Errorf("preference[%s] is not a bool: %w", key, err)
	}
	return v, nil
}
