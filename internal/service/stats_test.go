package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mecalink/admin-gateway/internal/domain"
)

func TestStatsService_PeriodDefaults(t *testing.T) {
	e := newEnv(t)
	e.upstream.Period = []domain.PeriodPoint{{Date: "2024-05-01", NewUsers: 3}}
	caller := e.signIn(t)

	svc := NewStatsService()
	svc.now = func() time.Time { return time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC) }

	got, err := svc.Period(context.Background(), caller, PeriodQuery{})
	require.NoError(t, err)

	assert.Equal(t, domain.GroupByDay, got.GroupBy)
	assert.Equal(t, time.Date(2024, time.April, 15, 12, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, []domain.PeriodPoint{{Date: "2024-05-01", NewUsers: 3}}, got.Points)
	assert.Equal(t, 1, e.upstream.Hits(http.MethodGet, "/admin/stats/period"))
	assert.Contains(t, e.upstream.LastRequest(), "startDate=2024-04-15")
}

func TestStatsService_PeriodRejectsInvertedRange(t *testing.T) {
	e := newEnv(t)
	caller := e.signIn(t)
	now := time.Now()

	_, err := NewStatsService().Period(context.Background(), caller, PeriodQuery{Start: now, End: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestStatsService_Dashboard(t *testing.T) {
	e := newEnv(t)
	e.upstream.Stats = domain.Stats{Users: domain.UserStats{Clients: 12, GarageOwners: 3}}
	caller := e.signIn(t)

	got, err := NewStatsService().Dashboard(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Users.Total())
}

func TestNotificationService_Send(t *testing.T) {
	e := newEnv(t)
	caller := e.signIn(t)
	svc := NewNotificationService()
	ctx := context.Background()
	n := domain.Notification{Title: "Promo", Body: "Vidange offerte"}

	res, err := svc.Send(ctx, caller, Composition{
		Target:       domain.TargetClients,
		Notification: n,
		Promotion:    domain.ClientPromotion{PromoCode: "HIVER24", ExpiryDate: "2024-12-31"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Notification envoyée", res.Message)

	_, err = svc.Send(ctx, caller, Composition{Target: domain.TargetDevice, Notification: n, DeviceTokens: []string{"a", "b"}})
	require.NoError(t, err)

	_, err = svc.Send(ctx, caller, Composition{Target: "sms", Notification: n})
	assert.ErrorIs(t, err, ErrUnknownTarget)

	sent := e.upstream.Notifications()
	require.Len(t, sent, 2)
	assert.Equal(t, "/admin/notifications/send-to-clients", sent[0].Path)
	assert.Equal(t, "HIVER24", sent[0].Body["promoCode"])
	assert.Equal(t, "/admin/notifications/send-to-device-tokens", sent[1].Path)
}
