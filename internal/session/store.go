package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mecalink/admin-gateway/internal/domain"
)

var ErrNoSession = errors.New("no session")

type EventKind int

const (
	EventSet EventKind = iota + 1
	EventCleared
)

type Event struct {
	Kind    EventKind
	Session domain.Session
	// Err is set on EventCleared when the persisted copy could not be deleted.
	Err error
}

type Listener func(Event)

// Persister keeps a session across restarts. Load returns ErrNoSession when
// nothing usable is stored.
type Persister interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context) error
}

// Store is the single source of truth for one operator's session. It is
// safe for concurrent use; listeners are called outside the lock, in
// subscription order.
type Store struct {
	mu        sync.RWMutex
	current   domain.Session
	persister Persister
	listeners map[int]Listener
	nextID    int
}

func NewStore(p Persister) *Store {
	return &Store{
		persister: p,
		listeners: make(map[int]Listener),
	}
}

// Restore loads the persisted session, if any. It does not notify.
func (s *Store) Restore(ctx context.Context) error {
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}

		return fmt.Errorf("s.persister.Load -> %w", err)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	return nil
}

func (s *Store) Set(ctx context.Context, token string, user domain.User) error {
	next := domain.Session{Token: token, User: user}
	if next.Empty() {
		return fmt.Errorf("session.Set: %w", ErrNoSession)
	}

	if err := s.persister.Save(ctx, next); err != nil {
		return fmt.Errorf("s.persister.Save -> %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.notify(Event{Kind: EventSet, Session: next})

	return nil
}

// Clear forgets the session. The in-memory session is always cleared; the
// returned error only reports a failure to delete the persisted copy.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	previous := s.current
	s.current = domain.Session{}
	s.mu.Unlock()

	err := s.persister.Delete(ctx)

	s.notify(Event{Kind: EventCleared, Session: previous, Err: err})

	if err != nil {
		return fmt.Errorf("s.persister.Delete -> %w", err)
	}

	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Token
}

func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.User, !s.current.Empty()
}

func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(e Event) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}
