package mecalink

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mecalink/admin-gateway/internal/domain"
)

func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/stats",
		protected: true,
	})
	if err != nil {
		return domain.Stats{}, err
	}

	var stats domain.Stats
	if _, err = unwrap(raw, &stats); err != nil {
		return domain.Stats{}, err
	}

	return stats, nil
}

const dateLayout = "2006-01-02"

func (c *Client) PeriodStats(ctx context.Context, start, end time.Time, groupBy domain.GroupBy) ([]domain.PeriodPoint, error) {
	raw, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/admin/stats/period",
		query: url.Values{
			"startDate": {start.Format(dateLayout)},
			"endDate":   {end.Format(dateLayout)},
			"groupBy":   {string(groupBy)},
		},
		protected: true,
	})
	if err != nil {
		return nil, err
	}

	var data struct {
		Data []domain.PeriodPoint `json:"data"`
	}
	if _, err = unwrap(raw, &data); err != nil {
		return nil, err
	}

	return data.Data, nil
}
