package mecalink

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mecalink/admin-gateway/internal/domain"
)

func (c *Client) ListServiceRequests(ctx context.Context) ([]domain.ServiceRequest, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/service-requests",
		protected: true,
	})
	if err != nil {
		return nil, err
	}

	var data struct {
		ServiceRequests []domain.ServiceRequest `json:"serviceRequests"`
	}
	if _, err = unwrap(raw, &data); err != nil {
		return nil, err
	}
	if err = validateAll(data.ServiceRequests, validateServiceRequest); err != nil {
		return nil, err
	}

	return data.ServiceRequests, nil
}

func (c *Client) GetServiceRequest(ctx context.Context, id string) (domain.ServiceRequest, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/service-requests/" + url.PathEscape(id),
		protected: true,
	})
	if err != nil {
		return domain.ServiceRequest{}, err
	}

	var req domain.ServiceRequest
	if _, err = unwrap(raw, &req); err != nil {
		return domain.ServiceRequest{}, err
	}
	if err = validateOne(req, validateServiceRequest); err != nil {
		return domain.ServiceRequest{}, err
	}

	return req, nil
}
