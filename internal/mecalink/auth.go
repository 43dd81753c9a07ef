package mecalink

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mecalink/admin-gateway/internal/domain"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and the user profile.
func (c *Client) Login(ctx context.Context, creds Credentials) (domain.Session, error) {
	raw, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   creds,
	})
	if err != nil {
		return domain.Session{}, err
	}

	var session domain.Session
	if _, err = unwrap(raw, &session); err != nil {
		return domain.Session{}, err
	}
	if err = validateOne(session, validateSession); err != nil {
		return domain.Session{}, fmt.Errorf("login answer -> %w", err)
	}

	return session, nil
}

// Me returns the profile of the signed-in admin.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/admin/auth/me",
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

// ProfileUpdate carries the editable profile fields. An empty Password is
// not sent.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
}

// UpdateProfile returns the updated profile and the server message.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.User, string, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodPut,
		path:      "/admin/profile",
		body:      update,
		protected: true,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	var data struct {
		User domain.User `json:"user"`
	}
	msg, err := unwrap(raw, &data)
	if err != nil {
		return domain.User{}, "", err
	}
	if err = validateOne(data.User, validateUser); err != nil {
		return domain.User{}, "", err
	}

	return data.User, msg, nil
}
