package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/mecalink/mecalinktest"
	"github.com/mecalink/admin-gateway/internal/session"
)

func TestAuthService_LoginLandingDependsOnRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.auth.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, LandingAdmin, res.Landing)
	assert.Equal(t, adminUser, res.User)

	caller, err := e.resolver.Resolve(ctx, res.SID)
	require.NoError(t, err)
	assert.NotEmpty(t, caller.Store.Token())
	assert.Equal(t, adminUser, caller.User())

	res, err = e.auth.Login(ctx, "c@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, LandingDefault, res.Landing)
}

func TestAuthService_LoginRejected(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Login(context.Background(), "a@x.com", "wrong")
	require.Error(t, err)

	reqErr, ok := mecalink.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, mecalink.KindValidation, reqErr.Kind)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "Identifiants invalides", reqErr.Message)
}

func TestAuthService_Logout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	caller := e.signIn(t)

	require.NoError(t, e.auth.Logout(ctx, caller))

	_, err := e.resolver.Resolve(ctx, caller.SID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCaller_UpstreamUnauthorizedClearsSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	caller := e.signIn(t)

	e.upstream.Revoke()

	_, err := NewProfileService().Me(ctx, caller)
	require.Error(t, err)

	_, err = e.resolver.Resolve(ctx, caller.SID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCaller_OtherErrorsKeepSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	caller := e.signIn(t)

	e.upstream.Fail(http.MethodGet, "/admin/auth/me", http.StatusInternalServerError, "")

	_, err := NewProfileService().Me(ctx, caller)
	require.Error(t, err)

	_, err = e.resolver.Resolve(ctx, caller.SID)
	assert.NoError(t, err)
}

func TestProfileService_UpdateRefreshesSessionUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	caller := e.signIn(t)

	user, msg, err := NewProfileService().UpdateProfile(ctx, caller, mecalink.ProfileUpdate{
		Name:  "Renamed",
		Email: "a@x.com",
		Phone: "0600000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", user.Name)
	assert.Equal(t, "Profil mis à jour avec succès", msg)
	assert.Equal(t, "Renamed", caller.User().Name)

	me, err := NewProfileService().Me(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "0600000000", me.Phone)
}

type brokenPersister struct{}

func (brokenPersister) Load(context.Context) (domain.Session, error) {
	return domain.Session{}, session.ErrNoSession
}
func (brokenPersister) Save(context.Context, domain.Session) error { return errors.New("db down") }
func (brokenPersister) Delete(context.Context) error               { return errors.New("db down") }

func TestAuthService_LoginLogsFailedCleanup(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	up := mecalinktest.NewServer(t)
	up.AddAccount("p", adminUser)
	registry := session.NewRegistry(func(string) session.Persister { return brokenPersister{} })
	auth := NewAuthService(registry, mecalink.New(up.URL))

	_, err := auth.Login(context.Background(), adminUser.Email, "p")
	require.Error(t, err)

	entries := logs.FilterMessage("failed to clear unsaved session").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "db down", entries[0].ContextMap()["error"])
}
