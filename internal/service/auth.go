package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/session"
)

const (
	LandingAdmin   = "/dashboard"
	LandingDefault = "/"
)

type LoginResult struct {
	SID     string
	User    domain.User
	Landing string
}

type AuthService struct {
	registry *session.Registry
	client   *mecalink.Client
}

func NewAuthService(registry *session.Registry, client *mecalink.Client) *AuthService {
	return &AuthService{
		registry: registry,
		client:   client,
	}
}

// Login authenticates against MecaLink and opens a gateway session holding
// the returned token and user.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	sess, err := s.client.Login(ctx, mecalink.Credentials{Email: email, Password: password})
	if err != nil {
		return LoginResult{}, fmt.Errorf("s.client.Login -> %w", err)
	}

	sid, store := s.registry.Create()
	if err = store.Set(ctx, sess.Token, sess.User); err != nil {
		if clearErr := store.Clear(ctx); clearErr != nil {
			zap.L().Warn("failed to clear unsaved session", zap.String("sid", sid), zap.Error(clearErr))
		}
		return LoginResult{}, fmt.Errorf("store.Set -> %w", err)
	}

	zap.L().Info("operator signed in",
		zap.String("sid", sid),
		zap.String("user", sess.User.ID),
		zap.String("role", string(sess.User.Role)))

	return LoginResult{
		SID:     sid,
		User:    sess.User,
		Landing: landing(sess.User),
	}, nil
}

func landing(u domain.User) string {
	if u.IsAdmin() {
		return LandingAdmin
	}
	return LandingDefault
}

func (s *AuthService) Logout(ctx context.Context, caller Caller) error {
	if err := caller.Store.Clear(ctx); err != nil {
		return fmt.Errorf("caller.Store.Clear -> %w", err)
	}

	return nil
}
