package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/mecalink/mecalinktest"
	"github.com/mecalink/admin-gateway/internal/session"
)

var (
	adminUser  = domain.User{ID: "admin-1", Name: "Admin", Email: "a@x.com", Role: domain.RoleAdmin}
	clientUser = domain.User{ID: "client-1", Name: "Client", Email: "c@x.com", Role: domain.RoleClient}
)

type env struct {
	upstream   *mecalinktest.Server
	registry   *session.Registry
	resolver   *SessionResolver
	auth       *AuthService
	catalog    *CatalogService
	broadcasts *BroadcastService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	up := mecalinktest.NewServer(t)
	up.AddAccount("p", adminUser)
	up.AddAccount("p", clientUser)

	client := mecalink.New(up.URL)
	registry := session.NewRegistry(session.MemoryPersisters())
	catalog := NewCatalogService(registry)

	return &env{
		upstream:   up,
		registry:   registry,
		resolver:   NewSessionResolver(registry, client),
		auth:       NewAuthService(registry, client),
		catalog:    catalog,
		broadcasts: NewBroadcastService(catalog, mecalink.NewDiagnosticClient(up.URL+"/diagnostic")),
	}
}

// signIn logs the admin in and returns its caller.
func (e *env) signIn(t *testing.T) Caller {
	t.Helper()

	ctx := context.Background()
	res, err := e.auth.Login(ctx, adminUser.Email, "p")
	require.NoError(t, err)

	caller, err := e.resolver.Resolve(ctx, res.SID)
	require.NoError(t, err)

	return caller
}

func seedClients(up *mecalinktest.Server, n int) {
	for i := 1; i <= n; i++ {
		up.Clients = append(up.Clients, domain.User{
			ID:    fmt.Sprintf("c%d", i),
			Name:  fmt.Sprintf("Client %d", i),
			Email: fmt.Sprintf("c%d@x.com", i),
			Role:  domain.RoleClient,
		})
	}
}

func seedChecklists(up *mecalinktest.Server, n int) {
	for i := 1; i <= n; i++ {
		up.Checklists = append(up.Checklists, domain.Checklist{
			ID:   fmt.Sprintf("ck%02d", i),
			User: domain.Ref[domain.User]{ID: fmt.Sprintf("u%d", i)},
			Date: time.Date(2024, time.January, i, 0, 0, 0, 0, time.UTC),
		})
	}
}
