package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/session"
)

var (
	ErrNoSession = session.ErrNoSession
	ErrNotAdmin  = errors.New("admin role required")
)

// Caller is a signed-in operator: its session and a MecaLink client bound
// to that session's token.
type Caller struct {
	SID   string
	Store *session.Store
	API   *mecalink.Client
}

func (c Caller) User() domain.User {
	user, _ := c.Store.User()
	return user
}

// check clears the session when MecaLink rejected its token, then hands err
// back unchanged.
func (c Caller) check(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	reqErr, ok := mecalink.AsRequestError(err)
	if !ok || reqErr.Status != http.StatusUnauthorized {
		return err
	}

	zap.L().Info("upstream rejected session token", zap.String("sid", c.SID))
	if clearErr := c.Store.Clear(context.WithoutCancel(ctx)); clearErr != nil {
		zap.L().Warn("clearing rejected session", zap.String("sid", c.SID), zap.Error(clearErr))
	}

	return err
}

// SessionResolver turns a session id into a Caller.
type SessionResolver struct {
	registry *session.Registry
	client   *mecalink.Client
}

func NewSessionResolver(registry *session.Registry, client *mecalink.Client) *SessionResolver {
	return &SessionResolver{
		registry: registry,
		client:   client,
	}
}

func (r *SessionResolver) Resolve(ctx context.Context, sid string) (Caller, error) {
	store, err := r.registry.Get(ctx, sid)
	if err != nil {
		return Caller{}, err
	}

	return r.caller(sid, store), nil
}

func (r *SessionResolver) caller(sid string, store *session.Store) Caller {
	return Caller{
		SID:   sid,
		Store: store,
		API:   r.client.WithToken(store),
	}
}
