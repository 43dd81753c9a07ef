package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mecalink/admin-gateway/internal/domain"
)

type failingPersister struct {
	MemoryPersister
	saveErr   error
	deleteErr error
}

func (f *failingPersister) Save(ctx context.Context, s domain.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryPersister.Save(ctx, s)
}

func (f *failingPersister) Delete(ctx context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryPersister.Delete(ctx)
}

var admin = domain.User{ID: "u1", Name: "Admin", Email: "a@x.com", Role: domain.RoleAdmin}

func TestStore_SetAndClear(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersister{}
	s := NewStore(p)

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, s.Set(ctx, "tok", admin))
	assert.Equal(t, "tok", s.Token())
	user, ok := s.User()
	assert.True(t, ok)
	assert.Equal(t, admin, user)

	persisted, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", persisted.Token)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Token())
	_, ok = s.User()
	assert.False(t, ok)

	_, err = p.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.Len(t, events, 2)
	assert.Equal(t, EventSet, events[0].Kind)
	assert.Equal(t, EventCleared, events[1].Kind)
	assert.Equal(t, "tok", events[1].Session.Token)
}

func TestStore_SetRejectsEmptyToken(t *testing.T) {
	s := NewStore(&MemoryPersister{})
	err := s.Set(context.Background(), "", admin)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_SetKeepsStateWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{saveErr: errors.New("disk full")}
	s := NewStore(p)

	notified := false
	s.Subscribe(func(Event) { notified = true })

	err := s.Set(ctx, "tok", admin)
	require.Error(t, err)
	assert.Empty(t, s.Token())
	assert.False(t, notified)
}

func TestStore_ClearAlwaysClearsMemory(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{}
	s := NewStore(p)
	require.NoError(t, s.Set(ctx, "tok", admin))

	p.deleteErr = errors.New("db down")
	err := s.Clear(ctx)
	require.Error(t, err)
	assert.Empty(t, s.Token())
}

func TestStore_Restore(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersister{}
	require.NoError(t, p.Save(ctx, domain.Session{Token: "tok", User: admin}))

	s := NewStore(p)
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, "tok", s.Token())

	empty := NewStore(&MemoryPersister{})
	require.NoError(t, empty.Restore(ctx))
	assert.Empty(t, empty.Token())
}

func TestStore_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&MemoryPersister{})

	calls := 0
	unsubscribe := s.Subscribe(func(Event) { calls++ })
	require.NoError(t, s.Set(ctx, "tok", admin))
	unsubscribe()
	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, 1, calls)
}

func TestStore_ListenersRunInSubscriptionOrder(t *testing.T) {
	s := NewStore(&MemoryPersister{})

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.Subscribe(func(Event) { order = append(order, i) })
	}
	require.NoError(t, s.Set(context.Background(), "tok", admin))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
