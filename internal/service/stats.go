package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mecalink/admin-gateway/internal/domain"
)

var ErrInvalidPeriod = errors.New("period start must be before its end")

// PeriodQuery selects the statistics window. Zero values mean the last month
// grouped by day.
type PeriodQuery struct {
	Start   time.Time
	End     time.Time
	GroupBy domain.GroupBy
}

type PeriodStats struct {
	Start   time.Time            `json:"start"`
	End     time.Time            `json:"end"`
	GroupBy domain.GroupBy       `json:"groupBy"`
	Points  []domain.PeriodPoint `json:"points"`
}

type StatsService struct {
	now func() time.Time
}

func NewStatsService() *StatsService {
	return &StatsService{now: time.Now}
}

func (s *StatsService) Dashboard(ctx context.Context, caller Caller) (domain.Stats, error) {
	stats, err := caller.API.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("caller.API.Stats -> %w", caller.check(ctx, err))
	}

	return stats, nil
}

func (s *StatsService) Period(ctx context.Context, caller Caller, q PeriodQuery) (PeriodStats, error) {
	q = s.withDefaults(q)
	if !q.Start.Before(q.End) {
		return PeriodStats{}, ErrInvalidPeriod
	}

	points, err := caller.API.PeriodStats(ctx, q.Start, q.End, q.GroupBy)
	if err != nil {
		return PeriodStats{}, fmt.Errorf("caller.API.PeriodStats -> %w", caller.check(ctx, err))
	}

	return PeriodStats{
		Start:   q.Start,
		End:     q.End,
		GroupBy: q.GroupBy,
		Points:  points,
	}, nil
}

func (s *StatsService) withDefaults(q PeriodQuery) PeriodQuery {
	if q.End.IsZero() {
		q.End = s.now()
	}
	if q.Start.IsZero() {
		q.Start = q.End.AddDate(0, -1, 0)
	}
	if q.GroupBy == "" {
		q.GroupBy = domain.GroupByDay
	}

	return q
}
