package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/mecalink/admin-gateway/internal/domain"
)

var ErrNoDeviceToken = errors.New("user has no device token")

const DefaultDiagnosticTitle = "Diagnostic de votre véhicule"

type Diagnoser interface {
	Diagnose(ctx context.Context, req domain.DiagnosticRequest) (domain.Diagnostic, error)
}

type DeviceSender interface {
	SendToDevice(ctx context.Context, deviceToken string, n domain.Notification) (domain.SendResult, error)
}

// DiagnosticBroadcast sends each user a diagnostic generated from their
// latest checklist.
type DiagnosticBroadcast struct {
	Diagnoser  Diagnoser
	Sender     DeviceSender
	Dispatcher *Dispatcher
	Title      string
}

func (b *DiagnosticBroadcast) Run(ctx context.Context, checklists []domain.Checklist) Report {
	selected := LatestPerUser(checklists)

	byUser := make(map[string]domain.Checklist, len(selected))
	recipients := make([]Recipient, 0, len(selected))
	for _, c := range selected {
		byUser[c.UserID()] = c
		r := Recipient{Key: c.UserID(), Label: c.UserID()}
		if c.User.Populated() {
			r.Label = c.User.Value.Name
			r.DeviceToken = c.User.Value.DeviceToken
		}
		recipients = append(recipients, r)
	}

	title := b.Title
	if title == "" {
		title = DefaultDiagnosticTitle
	}

	return orDefault(b.Dispatcher).Run(ctx, recipients, func(ctx context.Context, r Recipient) (string, error) {
		if r.DeviceToken == "" {
			return "", ErrNoDeviceToken
		}
		c := byUser[r.Key]

		diag, err := b.Diagnoser.Diagnose(ctx, domain.DiagnosticRequest{
			Marque:      c.Brand,
			Kilometrage: c.Mileage,
			Km:          c.Mileage,
		})
		if err != nil {
			return "", fmt.Errorf("b.Diagnoser.Diagnose -> %w", err)
		}

		_, err = b.Sender.SendToDevice(ctx, r.DeviceToken, domain.Notification{
			Title: title,
			Body:  diag.Diagnostic,
			Data:  c.ID,
		})
		if err != nil {
			return "", fmt.Errorf("b.Sender.SendToDevice -> %w", err)
		}

		return diag.Diagnostic, nil
	})
}

func orDefault(d *Dispatcher) *Dispatcher {
	if d == nil {
		return NewDispatcher()
	}
	return d
}

// DeviceBroadcast sends the same notification to each device token, one
// send per token.
type DeviceBroadcast struct {
	Sender     DeviceSender
	Dispatcher *Dispatcher
}

func (b *DeviceBroadcast) Run(ctx context.Context, deviceTokens []string, n domain.Notification) Report {
	recipients := make([]Recipient, len(deviceTokens))
	for i, token := range deviceTokens {
		recipients[i] = Recipient{Key: token, DeviceToken: token}
	}

	return orDefault(b.Dispatcher).Run(ctx, recipients, func(ctx context.Context, r Recipient) (string, error) {
		if r.DeviceToken == "" {
			return "", ErrNoDeviceToken
		}
		res, err := b.Sender.SendToDevice(ctx, r.DeviceToken, n)
		if err != nil {
			return "", fmt.Errorf("b.Sender.SendToDevice -> %w", err)
		}

		return res.Message, nil
	})
}
