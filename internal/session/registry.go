package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PersisterFactory returns the persister of the session identified by sid.
type PersisterFactory func(sid string) Persister

// Registry holds the stores of every signed-in operator, keyed by session id.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*Store
	factory PersisterFactory
	onDrop  []func(sid string)
	newID   func() string
	// cleared holds sessions whose persisted copy survived a Clear. They
	// are never restored, and their deletion is retried on Get.
	cleared map[string]struct{}
}

func NewRegistry(factory PersisterFactory) *Registry {
	return &Registry{
		stores:  make(map[string]*Store),
		cleared: make(map[string]struct{}),
		factory: factory,
		newID:   func() string { return uuid.NewString() },
	}
}

// OnDrop registers fn to be called with the id of every cleared session.
func (r *Registry) OnDrop(fn func(sid string)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onDrop = append(r.onDrop, fn)
}

// Create opens a new, empty session.
func (r *Registry) Create() (string, *Store) {
	sid := r.newID()
	store := NewStore(r.factory(sid))
	r.track(sid, store)

	return sid, store
}

// Get returns the store of sid, restoring it from its persister when it is
// not in memory. A session without a token yields ErrNoSession.
func (r *Registry) Get(ctx context.Context, sid string) (*Store, error) {
	r.mu.Lock()
	store, ok := r.stores[sid]
	_, cleared := r.cleared[sid]
	r.mu.Unlock()

	if cleared {
		r.purge(ctx, sid)
		return nil, ErrNoSession
	}

	if !ok {
		store = NewStore(r.factory(sid))
		if err := store.Restore(ctx); err != nil {
			return nil, fmt.Errorf("store.Restore -> %w", err)
		}
		if store.Token() == "" {
			return nil, ErrNoSession
		}
		store = r.track(sid, store)
	}

	if store.Token() == "" {
		return nil, ErrNoSession
	}

	return store, nil
}

func (r *Registry) track(sid string, store *Store) *Store {
	r.mu.Lock()
	if existing, ok := r.stores[sid]; ok {
		r.mu.Unlock()
		return existing
	}
	r.stores[sid] = store
	r.mu.Unlock()

	store.Subscribe(func(e Event) {
		if e.Kind == EventCleared {
			r.drop(sid, e.Err)
		}
	})

	return store
}

func (r *Registry) drop(sid string, deleteErr error) {
	r.mu.Lock()
	delete(r.stores, sid)
	if deleteErr != nil {
		r.cleared[sid] = struct{}{}
	}
	listeners := append([]func(string){}, r.onDrop...)
	r.mu.Unlock()

	zap.L().Debug("session dropped", zap.String("sid", sid))

	for _, fn := range listeners {
		fn(sid)
	}
}

// purge retries deleting the persisted copy of a cleared session.
func (r *Registry) purge(ctx context.Context, sid string) {
	if err := r.factory(sid).Delete(ctx); err != nil {
		zap.L().Warn("cleared session still persisted", zap.String("sid", sid), zap.Error(err))
		return
	}

	r.mu.Lock()
	delete(r.cleared, sid)
	r.mu.Unlock()
}
