package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(MemoryPersisters())

	sid, store := r.Create()
	require.NotEmpty(t, sid)

	_, err := r.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrNoSession, "a session without a token is not usable")

	require.NoError(t, store.Set(ctx, "tok", admin))

	got, err := r.Get(ctx, sid)
	require.NoError(t, err)
	assert.Same(t, store, got)
}

func TestRegistry_RestoresFromPersister(t *testing.T) {
	ctx := context.Background()
	factory := MemoryPersisters()

	first := NewRegistry(factory)
	sid, store := first.Create()
	require.NoError(t, store.Set(ctx, "tok", admin))

	// A second registry sharing the persisters stands for a restarted process.
	second := NewRegistry(factory)
	restored, err := second.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "tok", restored.Token())
}

func TestRegistry_ClearDropsSession(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(MemoryPersisters())

	var dropped []string
	r.OnDrop(func(sid string) { dropped = append(dropped, sid) })

	sid, store := r.Create()
	require.NoError(t, store.Set(ctx, "tok", admin))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, []string{sid}, dropped)
	_, err := r.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := NewRegistry(MemoryPersisters())
	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSession)
}

type failingDelete struct {
	MemoryPersister
	err error
}

func (p *failingDelete) Delete(ctx context.Context) error {
	if p.err != nil {
		return p.err
	}
	return p.MemoryPersister.Delete(ctx)
}

func TestRegistry_ClearedSessionNotRestoredWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	p := &failingDelete{err: errors.New("db down")}
	r := NewRegistry(func(string) Persister { return p })

	sid, store := r.Create()
	require.NoError(t, store.Set(ctx, "tok", admin))
	require.Error(t, store.Clear(ctx))

	_, err := r.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrNoSession)
	persisted, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", persisted.Token, "the row is still there")

	// Once the database is back the row is deleted on the next lookup.
	p.err = nil
	_, err = r.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = p.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = r.Get(ctx, sid)
	assert.ErrorIs(t, err, ErrNoSession)
}
