package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mecalink/admin-gateway/internal/domain"
)

var ErrUnknownTarget = errors.New("unknown notification target")

// Composition is what the notification composer submits. Promotion is only
// used for clients. A device target takes either one DeviceToken or a list
// of DeviceTokens sent in a single call.
type Composition struct {
	Target       domain.NotificationTarget
	Notification domain.Notification
	Promotion    domain.ClientPromotion
	DeviceToken  string
	DeviceTokens []string
}

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (s *NotificationService) Send(ctx context.Context, caller Caller, c Composition) (domain.SendResult, error) {
	var (
		res domain.SendResult
		err error
	)

	switch c.Target {
	case domain.TargetAll:
		res, err = caller.API.SendToAll(ctx, c.Notification)
	case domain.TargetClients:
		res, err = caller.API.SendToClients(ctx, c.Notification, c.Promotion)
	case domain.TargetGarages:
		res, err = caller.API.SendToGarages(ctx, c.Notification)
	case domain.TargetDevice:
		if len(c.DeviceTokens) > 0 {
			res, err = caller.API.SendToDeviceTokens(ctx, c.DeviceTokens, c.Notification)
			break
		}
		res, err = caller.API.SendToDevice(ctx, c.DeviceToken, c.Notification)
	default:
		return domain.SendResult{}, fmt.Errorf("%q: %w", c.Target, ErrUnknownTarget)
	}
	if err != nil {
		return domain.SendResult{}, fmt.Errorf("send to %s -> %w", c.Target, caller.check(ctx, err))
	}

	return res, nil
}
