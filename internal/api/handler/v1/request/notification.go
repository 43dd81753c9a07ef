package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mecalink/admin-gateway/internal/domain"
)

var (
	errMissingDeviceToken = errors.New("un token d'appareil est requis pour cette cible")
	errEmptyDeviceToken   = errors.New("les tokens d'appareil ne peuvent pas être vides")
)

type NotificationRequest struct {
	Target       string   `json:"target"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Data         string   `json:"data"`
	PromoCode    string   `json:"promoCode"`
	ExpiryDate   string   `json:"expiryDate"`
	DeviceToken  string   `json:"deviceToken"`
	DeviceTokens []string `json:"deviceTokens"`
}

func (req *NotificationRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Target, validation.Required, validation.In(
			string(domain.TargetAll),
			string(domain.TargetClients),
			string(domain.TargetGarages),
			string(domain.TargetDevice),
		)),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Body, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.ExpiryDate, validation.Date(DateLayout)),
	)
	if err != nil {
		return err
	}

	if req.Target == string(domain.TargetDevice) && req.DeviceToken == "" && len(req.DeviceTokens) == 0 {
		return errMissingDeviceToken
	}

	return validateTokens(req.DeviceTokens)
}

func (req *NotificationRequest) Notification() domain.Notification {
	return domain.Notification{Title: req.Title, Body: req.Body, Data: req.Data}
}

type DeviceBroadcastRequest struct {
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	Data         string   `json:"data"`
	DeviceTokens []string `json:"deviceTokens"`
}

func (req *DeviceBroadcastRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Body, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.DeviceTokens, validation.Required, validation.Length(1, 1000)),
	)
	if err != nil {
		return err
	}

	return validateTokens(req.DeviceTokens)
}

func (req *DeviceBroadcastRequest) Notification() domain.Notification {
	return domain.Notification{Title: req.Title, Body: req.Body, Data: req.Data}
}

func validateTokens(tokens []string) error {
	for _, t := range tokens {
		if t == "" {
			return errEmptyDeviceToken
		}
	}

	return nil
}
