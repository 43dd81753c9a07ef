package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/resource"
)

func ids[T resource.Entity](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.EntityID()
	}
	return out
}

func TestCatalogService_ChecklistPaging(t *testing.T) {
	e := newEnv(t)
	seedChecklists(e.upstream, 25)
	caller := e.signIn(t)
	ctx := context.Background()

	st, err := e.catalog.Checklists(ctx, caller, PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, st.PageCount)
	assert.Equal(t, 25, st.Total)
	assert.Len(t, st.Items, 10)

	st, err = e.catalog.Checklists(ctx, caller, PageQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, "ck11", st.Items[0].ID)

	hits := e.upstream.Hits(http.MethodGet, "/admin/checklists")
	st, err = e.catalog.Checklists(ctx, caller, PageQuery{Page: 4})
	assert.ErrorIs(t, err, resource.ErrPageOutOfRange)
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, hits, e.upstream.Hits(http.MethodGet, "/admin/checklists"))
}

func TestCatalogService_OpenAgainStartsOver(t *testing.T) {
	e := newEnv(t)
	seedClients(e.upstream, 15)
	caller := e.signIn(t)
	ctx := context.Background()

	_, err := e.catalog.Clients(ctx, caller, PageQuery{})
	require.NoError(t, err)
	st, err := e.catalog.Clients(ctx, caller, PageQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, st.Items, 5)

	st, err = e.catalog.Clients(ctx, caller, PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 1, st.PageCount)
	assert.Len(t, st.Items, 15)
}

func TestCatalogService_DeleteOnlyTouchesCallerView(t *testing.T) {
	e := newEnv(t)
	seedClients(e.upstream, 3)
	ctx := context.Background()
	alice := e.signIn(t)
	bob := e.signIn(t)

	_, err := e.catalog.Clients(ctx, alice, PageQuery{})
	require.NoError(t, err)
	_, err = e.catalog.Clients(ctx, bob, PageQuery{})
	require.NoError(t, err)

	require.NoError(t, e.catalog.DeleteClient(ctx, alice, "c2"))

	st, err := e.catalog.Clients(ctx, alice, PageQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c3"}, ids(st.Items))
	assert.Equal(t, 2, st.Total)

	st, err = e.catalog.Clients(ctx, bob, PageQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids(st.Items))
}

func TestCatalogService_FailedDeleteKeepsList(t *testing.T) {
	e := newEnv(t)
	seedClients(e.upstream, 3)
	caller := e.signIn(t)
	ctx := context.Background()

	before, err := e.catalog.Clients(ctx, caller, PageQuery{})
	require.NoError(t, err)

	e.upstream.Fail(http.MethodDelete, "/admin/users/c2", http.StatusInternalServerError, "")
	err = e.catalog.DeleteClient(ctx, caller, "c2")
	require.Error(t, err)

	reqErr, ok := mecalink.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, mecalink.KindServer, reqErr.Kind)

	after, err := e.catalog.Clients(ctx, caller, PageQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCatalogService_GarageDetailAndDelete(t *testing.T) {
	e := newEnv(t)
	e.upstream.Garages = []domain.Garage{
		{ID: "g1", Name: "Garage du Centre", Note: 4.5},
		{ID: "g2", Name: "Auto Plus"},
	}
	caller := e.signIn(t)
	ctx := context.Background()

	g, err := e.catalog.Garage(ctx, caller, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Garage du Centre", g.Name)

	_, err = e.catalog.Garages(ctx, caller, PageQuery{})
	require.NoError(t, err)
	require.NoError(t, e.catalog.DeleteGarage(ctx, caller, "g1"))

	st, err := e.catalog.Garages(ctx, caller, PageQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"g2"}, ids(st.Items))
}

func TestCatalogService_ChecklistDetailIsTranslated(t *testing.T) {
	e := newEnv(t)
	e.upstream.Checklists = []domain.Checklist{{
		ID:             "ck1",
		ExteriorChecks: map[string]string{"tires": "Bon", "mystery": "Bizarre"},
	}}
	caller := e.signIn(t)

	v, err := e.catalog.Checklist(context.Background(), caller, "ck1")
	require.NoError(t, err)

	assert.Equal(t, "Non renseigné", v.User.Name)
	assert.Equal(t, "Aucune observation", v.Observations)
	assert.Equal(t, map[string]string{"Pneus": "Bon", "mystery": "Bizarre"}, v.ExteriorChecks)
}

func TestCatalogService_ServiceRequestLabels(t *testing.T) {
	e := newEnv(t)
	e.upstream.ServiceRequests = []domain.ServiceRequest{
		{ID: "sr1", Status: domain.StatusPending},
		{ID: "sr2", Status: domain.StatusAccepted},
	}
	caller := e.signIn(t)
	ctx := context.Background()

	st, err := e.catalog.ServiceRequests(ctx, caller, PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, "En attente", st.Items[0].StatusLabel)
	assert.Equal(t, "Accepté", st.Items[1].StatusLabel)

	sr, err := e.catalog.ServiceRequest(ctx, caller, "sr2")
	require.NoError(t, err)
	assert.Equal(t, "Accepté", sr.StatusLabel)
}

func TestCatalogService_AdvertisementLifecycle(t *testing.T) {
	e := newEnv(t)
	caller := e.signIn(t)
	ctx := context.Background()

	_, err := e.catalog.Advertisements(ctx, caller, PageQuery{})
	require.NoError(t, err)

	created, err := e.catalog.CreateAdvertisement(ctx, caller, domain.AdvertisementInput{
		Title:       "Promo pneus",
		Description: "-20% sur les pneus hiver",
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.Empty(t, created.ImageURL)

	st, err := e.catalog.Advertisements(ctx, caller, PageQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, ids(st.Items))

	updated, err := e.catalog.UpdateAdvertisement(ctx, caller, created.ID, domain.AdvertisementInput{
		Title: "Promo pneus",
		Image: &domain.Upload{Filename: "pneus.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/pneus.png", updated.ImageURL)
	assert.False(t, updated.IsActive)

	st, err = e.catalog.Advertisements(ctx, caller, PageQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, updated, st.Items[0])

	require.NoError(t, e.catalog.DeleteAdvertisement(ctx, caller, created.ID))
	st, err = e.catalog.Advertisements(ctx, caller, PageQuery{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestCatalogService_ViewsDroppedOnLogout(t *testing.T) {
	e := newEnv(t)
	caller := e.signIn(t)
	ctx := context.Background()

	_, err := e.catalog.Clients(ctx, caller, PageQuery{})
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx, caller))

	e.catalog.mu.Lock()
	_, kept := e.catalog.views[caller.SID]
	e.catalog.mu.Unlock()
	assert.False(t, kept)
}
