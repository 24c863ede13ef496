package remember

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/secureguard/internal/client/prefs"
	"github.com/dmitrijs2005/secureguard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyStoreGivesZeroLogin(t *testing.T) {
	s := NewStore(prefs.NewMemoryStore())

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Login{}, got)
}

func TestSave_LowercasesEmailAndKeepsPassword(t *testing.T) {
	p := prefs.NewMemoryStore()
	s := NewStore(p)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Login{RememberMe: true, Email: "Alice@Example.COM", Password: "Secr3t!"}))

	email, err := p.GetString(ctx, common.PrefEmail, "")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	pw, err := p.GetString(ctx, common.PrefPassword, "")
	require.NoError(t, err)
	assert.Equal(t, "Secr3t!", pw)

	flag, err := p.GetBool(ctx, common.PrefAutoLogin, false)
	require.NoError(t, err)
	assert.True(t, flag)
}

func TestSaveThenLoad_AcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	p1, err := prefs.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewStore(p1).Save(ctx, Login{RememberMe: true, Email: "bob@example.com", Password: "hunter22"}))
	require.NoError(t, p1.Close())

	p2, err := prefs.Open(ctx, path)
	require.NoError(t, err)
	defer p2.Close()

	got, err := NewStore(p2).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Login{RememberMe: true, Email: "bob@example.com", Password: "hunter22"}, got)
}

func TestSave_ToggleOffIsStillWritten(t *testing.T) {
	s := NewStore(prefs.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Login{RememberMe: true, Email: "a@b.co", Password: "pw1234"}))
	require.NoError(t, s.Save(ctx, Login{RememberMe: false, Email: "a@b.co", Password: "pw1234"}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.RememberMe)
}

func TestForget_ClearsEverything(t *testing.T) {
	s := NewStore(prefs.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Login{RememberMe: true, Email: "a@b.co", Password: "pw1234"}))
	require.NoError(t, s.Forget(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Login{}, got)
}

type failingPrefs struct {
	prefs.Store
	err error
}

func (f failingPrefs) GetBool(context.Context, string, bool) (bool, error) { return false, f.err }

func TestLoad_PropagatesStoreError(t *testing.T) {
	boom := errors.New("disk gone")
	s := NewStore(failingPrefs{Store: prefs.NewMemoryStore(), err: boom})

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load remember-me flag")
}
