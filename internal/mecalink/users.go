package mecalink

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mecalink/admin-gateway/internal/domain"
)

// ListClients returns every user with the client role.
func (c *Client) ListClients(ctx context.Context) ([]domain.User, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/users",
		query:     url.Values{"role": {string(domain.RoleClient)}},
		protected: true,
	})
	if err != nil {
		return nil, err
	}

	var data struct {
		Users []domain.User `json:"users"`
	}
	if _, err = unwrap(raw, &data); err != nil {
		return nil, err
	}
	if err = validateAll(data.Users, validateUser); err != nil {
		return nil, err
	}

	return data.Users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (domain.User, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/users/" + url.PathEscape(id),
		protected: true,
	})
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	if _, err = unwrap(raw, &user); err != nil {
		return domain.User{}, err
	}
	if err = validateOne(user, validateUser); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		method:    http.MethodDelete,
		path:      "/admin/users/" + url.PathEscape(id),
		protected: true,
	})

	return err
}

func (c *Client) ListGarages(ctx context.Context) ([]domain.Garage, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/garages",
		protected: true,
	})
	if err != nil {
		return nil, err
	}

	var data struct {
		Garages []domain.Garage `json:"garages"`
	}
	if _, err = unwrap(raw, &data); err != nil {
		return nil, err
	}
	if err = validateAll(data.Garages, validateGarage); err != nil {
		return nil, err
	}

	return data.Garages, nil
}

func (c *Client) GetGarage(ctx context.Context, id string) (domain.Garage, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/garages/" + url.PathEscape(id),
		protected: true,
	})
	if err != nil {
		return domain.Garage{}, err
	}

	var garage domain.Garage
	if _, err = unwrap(raw, &garage); err != nil {
		return domain.Garage{}, err
	}
	if err = validateOne(garage, validateGarage); err != nil {
		return domain.Garage{}, err
	}

	return garage, nil
}

func (c *Client) DeleteGarage(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		method:    http.MethodDelete,
		path:      "/admin/garages/" + url.PathEscape(id),
		protected: true,
	})

	return err
}
