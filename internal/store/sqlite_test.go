package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteImplementsStore(t *testing.T) {
	t.Parallel()
	var _ Store = &SQLiteStore{}
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	body := []byte(`[{"id": 1, "title": "Catalogue of Life"}]`)
	require.NoError(t, st.Set(ctx, "data_sources", body, time.Hour))

	got, ok, err := st.Get(ctx, "data_sources")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, body, got)
}

func TestCache_Miss(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	_, ok, err := st.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "data_sources", []byte(`[]`), -time.Minute))

	_, ok, err := st.Get(ctx, "data_sources")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := st.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_Overwrite(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "k", []byte(`old`), time.Hour))
	require.NoError(t, st.Set(ctx, "k", []byte(`new`), time.Hour))

	got, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`new`), got)
}

func TestLastRequest_ZeroWhenUnset(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	last, err := st.LastRequest(context.Background())
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}

func TestLastRequest_RoundTrip(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, st.SetLastRequest(ctx, now))

	last, err := st.LastRequest(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, now, last, time.Second)

	// Updating replaces the single row.
	later := now.Add(time.Minute)
	require.NoError(t, st.SetLastRequest(ctx, later))
	last, err = st.LastRequest(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, later, last, time.Second)
}
