// Package remember persists the "remember me" state of the login form.
//
// The password is stored as entered, in plaintext, next to the email. This
// mirrors the existing behaviour of the screen; see Forget for wiping it.
package remember

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/secureguard/internal/client/prefs"
	"github.com/dmitrijs2005/secureguard/internal/common"
)

// Login is the remembered form state.
type Login struct {
	RememberMe bool
	Email      string
	Password   string
}

// Store reads and writes Login values in a preference store.
type Store struct {
	prefs prefs.Store
}

func NewStore(p prefs.Store) *Store {
	return &Store{prefs: p}
}

// Load returns the last saved Login, or the zero Login if nothing was saved.
func (s *Store) Load(ctx context.Context) (Login, error) {
	var (
		l   Login
		err error
	)

	if l.RememberMe, err = s.prefs.GetBool(ctx, common.PrefAutoLogin, false); err != nil {
		return Login{}, fmt.Errorf("load remember-me flag: %w", err)
	}
	if l.Email, err = s.prefs.GetString(ctx, common.PrefEmail, ""); err != nil {
		return Login{}, fmt.Errorf("load remembered email: %w", err)
	}
	if l.Password, err = s.prefs.GetString(ctx, common.PrefPassword, ""); err != nil {
		return Login{}, fmt.Errorf("load remembered password: %w", err)
	}
	return l, nil
}

// Save writes all three values in one batch. The email is lowercased.
func (s *Store) Save(ctx context.Context, l Login) error {
	return s.prefs.Batch(ctx, func(w prefs.Writer) error {
		if err := w.SetBool(ctx, common.PrefAutoLogin, l.RememberMe); err != nil {
			return err
		}
		if err := w.SetString(ctx, common.PrefEmail, strings.ToLower(l.Email)); err != nil {
			return err
		}
		return w.SetString(ctx, common.PrefPassword, l.Password)
	})
}

// Forget removes every remembered value.
func (s *Store) Forget(ctx context.Context) error {
	return s.prefs.Batch(ctx, func(w prefs.Writer) error {
		for _, key := range []string{common.PrefAutoLogin, common.PrefEmail, common.PrefPassword} {
			if err := w.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
}
