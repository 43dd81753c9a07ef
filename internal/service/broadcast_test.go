package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mecalink/admin-gateway/internal/dispatch"
	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/session"
)

func owner(id, token string) domain.Ref[domain.User] {
	return domain.Ref[domain.User]{ID: id, Value: &domain.User{ID: id, Name: id, Email: id + "@x.com", Role: domain.RoleClient, DeviceToken: token}}
}

func TestBroadcastService_Devices(t *testing.T) {
	e := newEnv(t)
	caller := e.signIn(t)

	run, err := e.broadcasts.StartDevices(context.Background(), caller, []string{"tok-a", "tok-b"}, domain.Notification{Title: "Info", Body: "Atelier fermé lundi"})
	require.NoError(t, err)
	assert.Equal(t, RunDevices, run.Kind)
	assert.Equal(t, adminUser.Email, run.StartedBy)

	e.broadcasts.Wait()

	got, err := e.broadcasts.Get(caller, run.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.NotNil(t, got.FinishedAt)
	assert.Equal(t, 2, got.Succeeded)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "tok-a", got.Entries[0].Key)

	sent := e.upstream.Notifications()
	require.Len(t, sent, 2)
	assert.Equal(t, "/admin/notifications/send-to-device", sent[0].Path)
	assert.Equal(t, "tok-b", sent[1].Body["deviceToken"])
}

func TestBroadcastService_DevicesNeedTokens(t *testing.T) {
	e := newEnv(t)
	caller := e.signIn(t)

	_, err := e.broadcasts.StartDevices(context.Background(), caller, nil, domain.Notification{Title: "x"})
	assert.ErrorIs(t, err, ErrNoDeviceTokens)
}

func TestBroadcastService_Diagnostic(t *testing.T) {
	e := newEnv(t)
	jan := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	e.upstream.Checklists = []domain.Checklist{
		{ID: "old", User: owner("u1", "t1"), Date: jan(1), Brand: "Renault", Mileage: 1000},
		{ID: "new", User: owner("u1", "t1"), Date: jan(8), Brand: "Peugeot", Mileage: 52000},
		{ID: "other", User: owner("u2", ""), Date: jan(3), Brand: "Fiat"},
	}
	caller := e.signIn(t)

	run, err := e.broadcasts.StartDiagnostic(context.Background(), caller)
	require.NoError(t, err)
	e.broadcasts.Wait()

	got, err := e.broadcasts.Get(caller, run.ID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, dispatch.StatusSucceeded, got.Entries[0].Status)
	assert.Equal(t, "Révision conseillée pour Peugeot à 52000 km", got.Entries[0].Message)
	assert.Equal(t, dispatch.StatusFailed, got.Entries[1].Status)
	assert.Equal(t, dispatch.ErrNoDeviceToken.Error(), got.Entries[1].Error)

	sent := e.upstream.Notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "t1", sent[0].Body["deviceToken"])
	assert.Equal(t, "Révision conseillée pour Peugeot à 52000 km", sent[0].Body["body"])
}

func TestBroadcastService_Subscribe(t *testing.T) {
	e := newEnv(t)
	caller := e.signIn(t)

	_, _, _, err := e.broadcasts.Subscribe(caller, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	run, err := e.broadcasts.StartDevices(context.Background(), caller, []string{"tok-a"}, domain.Notification{Title: "x"})
	require.NoError(t, err)

	_, updates, unsubscribe, err := e.broadcasts.Subscribe(caller, run.ID)
	require.NoError(t, err)
	defer unsubscribe()

	var last Run
	for snap := range updates {
		last = snap
	}
	if !last.Done {
		// The run finished before the subscription was taken.
		last, err = e.broadcasts.Get(caller, run.ID)
		require.NoError(t, err)
	}
	assert.True(t, last.Done)
	assert.Equal(t, 1, last.Succeeded)

	snap, updates, _, err := e.broadcasts.Subscribe(caller, run.ID)
	require.NoError(t, err)
	assert.True(t, snap.Done)
	_, open := <-updates
	assert.False(t, open)
}

func TestBroadcastService_RunsAreScopedToTheirOperator(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	caller := e.signIn(t)

	run, err := e.broadcasts.StartDevices(ctx, caller, []string{"tok-a"}, domain.Notification{Title: "x"})
	require.NoError(t, err)
	e.broadcasts.Wait()

	other := Caller{SID: "other", Store: session.NewStore(&session.MemoryPersister{}), API: caller.API}
	require.NoError(t, other.Store.Set(ctx, "tok-other", domain.User{ID: "admin-2", Email: "b@x.com", Role: domain.RoleAdmin}))

	_, err = e.broadcasts.Get(other, run.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, _, _, err = e.broadcasts.Subscribe(other, run.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	got, err := e.broadcasts.Get(caller, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}
