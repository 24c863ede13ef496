package prefs

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-process Store. Nothing survives a restart; it backs
// ephemeral runs where no preference file is configured.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) GetBool(_ context.Context, key string, def bool) (bool, error) {
	raw, ok := m.get(key)
	if !ok {
		return def, nil
	}
	return decodeBool(key, raw)
}

func (m *MemoryStore) GetString(_ context.Context, key string, def string) (string, error) {
	raw, ok := m.get(key)
	if !ok {
		return def, nil
	}
	return string(raw), nil
}

func (m *MemoryStore) SetBool(ctx context.Context, key string, value bool) error {
	return m.Batch(ctx, func(w Writer) error { return w.SetBool(ctx, key, value) })
}

func (m *MemoryStore) SetString(ctx context.Context, key string, value string) error {
	return m.Batch(ctx, func(w Writer) error { return w.SetString(ctx, key, value) })
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	return m.Batch(ctx, func(w Writer) error { return w.Delete(ctx, key) })
}

// Batch stages writes on a copy and swaps it in only when fn succeeds.
func (m *MemoryStore) Batch(_ context.Context, fn func(w Writer) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := &mapWriter{values: maps.Clone(m.values)}
	if staged.values == nil {
		staged.values = make(map[string][]byte)
	}
	if err := fn(staged); err != nil {
		return err
	}
	m.values = staged.values
	return nil
}

type mapWriter struct {
	values map[string][]byte
}

func (w *mapWriter) SetBool(_ context.Context, key string, value bool) error {
	w.values[key] = encodeBool(value)
	return nil
}

func (w *mapWriter) SetString(_ context.Context, key string, value string) error {
	w.values[key] = []byte(value)
	return nil
}

func (w *mapWriter) Delete(_ context.Context, key string) error {
	delete(w.values, key)
	return nil
}
