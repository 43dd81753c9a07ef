package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/repository/dao"
	"github.com/mecalink/admin-gateway/internal/session"
)

type SessionDAO interface {
	Insert(ctx context.Context, s dao.Session) (dao.Session, error)
	Update(ctx context.Context, s dao.Session) (dao.Session, error)
	FindByID(ctx context.Context, id string) (dao.Session, error)
	Delete(ctx context.Context, id string) error
}

type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// SessionRepository persists sealed sessions. The session id is sealed with
// the payload, so a row copied under another id does not open.
type SessionRepository struct {
	dao    SessionDAO
	sealer Sealer
}

func NewSessionRepository(dao SessionDAO, sealer Sealer) *SessionRepository {
	return &SessionRepository{
		dao:    dao,
		sealer: sealer,
	}
}

// Persisters adapts the repository to the session registry.
func (r *SessionRepository) Persisters() session.PersisterFactory {
	return func(sid string) session.Persister {
		return &sessionPersister{repo: r, sid: sid}
	}
}

type sealedSession struct {
	SID   string      `json:"sid"`
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (r *SessionRepository) Load(ctx context.Context, sid string) (domain.Session, error) {
	row, err := r.dao.FindByID(ctx, sid)
	if err != nil {
		if errors.Is(err, dao.ErrSessionNotFound) {
			return domain.Session{}, session.ErrNoSession
		}

		return domain.Session{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	plain, err := r.sealer.Open(row.Sealed)
	if err != nil {
		zap.L().Warn("discarding unreadable session", zap.String("sid", sid), zap.Error(err))
		return domain.Session{}, session.ErrNoSession
	}

	var payload sealedSession
	if err = json.Unmarshal(plain, &payload); err != nil || payload.SID != sid {
		zap.L().Warn("discarding foreign session", zap.String("sid", sid))
		return domain.Session{}, session.ErrNoSession
	}

	return domain.Session{Token: payload.Token, User: payload.User}, nil
}

func (r *SessionRepository) Save(ctx context.Context, sid string, s domain.Session) error {
	plain, err := json.Marshal(sealedSession{SID: sid, Token: s.Token, User: s.User})
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	sealed, err := r.sealer.Seal(plain)
	if err != nil {
		return fmt.Errorf("r.sealer.Seal -> %w", err)
	}

	row := dao.Session{ID: sid, Sealed: sealed}
	_, err = r.dao.Insert(ctx, row)
	if errors.Is(err, dao.ErrSessionExists) {
		_, err = r.dao.Update(ctx, row)
		if err != nil {
			return fmt.Errorf("r.dao.Update -> %w", err)
		}

		return nil
	}
	if err != nil {
		return fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sid string) error {
	if err := r.dao.Delete(ctx, sid); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

type sessionPersister struct {
	repo *SessionRepository
	sid  string
}

func (p *sessionPersister) Load(ctx context.Context) (domain.Session, error) {
	return p.repo.Load(ctx, p.sid)
}

func (p *sessionPersister) Save(ctx context.Context, s domain.Session) error {
	return p.repo.Save(ctx, p.sid, s)
}

func (p *sessionPersister) Delete(ctx context.Context) error {
	return p.repo.Delete(ctx, p.sid)
}
