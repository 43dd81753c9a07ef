package mecalink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mecalink/admin-gateway/internal/domain"
)

func (c *Client) notify(ctx context.Context, path string, payload any) (domain.SendResult, error) {
	raw, err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      path,
		body:      payload,
		protected: true,
	})
	if err != nil {
		return domain.SendResult{}, err
	}

	var env envelope
	if err = json.Unmarshal(raw, &env); err != nil {
		return domain.SendResult{}, decodeError(fmt.Errorf("json.Unmarshal -> %w", err))
	}
	if env.Success != nil && !*env.Success {
		return domain.SendResult{}, newRequestError(KindValidation, 0, env.message(), nil)
	}

	return domain.SendResult{
		Success: true,
		Message: env.message(),
		Data:    env.Data,
	}, nil
}

func (c *Client) SendToAll(ctx context.Context, n domain.Notification) (domain.SendResult, error) {
	return c.notify(ctx, "/admin/notifications/send-to-all", n)
}

func (c *Client) SendToClients(ctx context.Context, n domain.Notification, promo domain.ClientPromotion) (domain.SendResult, error) {
	return c.notify(ctx, "/admin/notifications/send-to-clients", struct {
		domain.Notification
		domain.ClientPromotion
	}{n, promo})
}

func (c *Client) SendToGarages(ctx context.Context, n domain.Notification) (domain.SendResult, error) {
	return c.notify(ctx, "/admin/notifications/send-to-garages", n)
}

func (c *Client) SendToDevice(ctx context.Context, deviceToken string, n domain.Notification) (domain.SendResult, error) {
	return c.notify(ctx, "/admin/notifications/send-to-device", struct {
		domain.Notification
		DeviceToken string `json:"deviceToken"`
	}{n, deviceToken})
}

// SendToDeviceTokens sends n to several devices in a single call.
func (c *Client) SendToDeviceTokens(ctx context.Context, deviceTokens []string, n domain.Notification) (domain.SendResult, error) {
	return c.notify(ctx, "/admin/notifications/send-to-device-tokens", struct {
		domain.Notification
		DeviceTokens []string `json:"deviceTokens"`
	}{n, deviceTokens})
}
