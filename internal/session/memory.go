package session

import (
	"context"
	"sync"

	"github.com/mecalink/admin-gateway/internal/domain"
)

// MemoryPersister keeps sessions in process memory only.
type MemoryPersister struct {
	mu      sync.Mutex
	session *domain.Session
}

func (m *MemoryPersister) Load(_ context.Context) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.Session{}, ErrNoSession
	}

	return *m.session, nil
}

func (m *MemoryPersister) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = &s

	return nil
}

func (m *MemoryPersister) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil

	return nil
}

// MemoryPersisters returns a persister factory backed by process memory.
// Sessions survive a registry eviction but not a restart.
func MemoryPersisters() PersisterFactory {
	var (
		mu    sync.Mutex
		byKey = make(map[string]*MemoryPersister)
	)

	return func(sid string) Persister {
		mu.Lock()
		defer mu.Unlock()

		p, ok := byKey[sid]
		if !ok {
			p = &MemoryPersister{}
			byKey[sid] = p
		}

		return p
	}
}
