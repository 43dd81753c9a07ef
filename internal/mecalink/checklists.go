package mecalink

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mecalink/admin-gateway/internal/domain"
)

// ChecklistPage is one page of checklists as paginated by the server.
type ChecklistPage struct {
	Checklists []domain.Checklist `json:"checklists"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int                `json:"total"`
	Pages      int                `json:"pages"`
}

func (c *Client) ListChecklists(ctx context.Context, page, limit int) (ChecklistPage, error) {
	raw, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/admin/checklists",
		query: url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(limit)},
		},
		protected: true,
	})
	if err != nil {
		return ChecklistPage{}, err
	}

	var data ChecklistPage
	if _, err = unwrap(raw, &data); err != nil {
		return ChecklistPage{}, err
	}
	if err = validateAll(data.Checklists, validateChecklist); err != nil {
		return ChecklistPage{}, err
	}

	return data, nil
}

func (c *Client) GetChecklist(ctx context.Context, id string) (domain.Checklist, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/checklists/" + url.PathEscape(id),
		protected: true,
	})
	if err != nil {
		return domain.Checklist{}, err
	}

	var checklist domain.Checklist
	if _, err = unwrap(raw, &checklist); err != nil {
		return domain.Checklist{}, err
	}
	if err = validateOne(checklist, validateChecklist); err != nil {
		return domain.Checklist{}, err
	}

	return checklist, nil
}
