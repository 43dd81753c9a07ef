package mecalink

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mecalink/admin-gateway/internal/domain"
)

// Answers are validated here so callers can rely on ids and enums.

var roles = []interface{}{domain.RoleClient, domain.RoleGarage, domain.RoleAdmin}

func validateUser(u domain.User) error {
	return validation.ValidateStruct(
		&u,
		validation.Field(&u.ID, validation.Required),
		validation.Field(&u.Email, is.Email),
		validation.Field(&u.Role, validation.In(roles...)),
	)
}

func validateSession(s domain.Session) error {
	err := validation.ValidateStruct(
		&s,
		validation.Field(&s.Token, validation.Required),
	)
	if err != nil {
		return err
	}

	return validation.ValidateStruct(
		&s.User,
		validation.Field(&s.User.ID, validation.Required),
		validation.Field(&s.User.Role, validation.Required, validation.In(roles...)),
	)
}

func validateGarage(g domain.Garage) error {
	return validation.ValidateStruct(
		&g,
		validation.Field(&g.ID, validation.Required),
		validation.Field(&g.Note, validation.Min(0.0), validation.Max(5.0)),
	)
}

func validateChecklist(c domain.Checklist) error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Mileage, validation.Min(0)),
	)
}

func validateServiceRequest(r domain.ServiceRequest) error {
	return validation.ValidateStruct(
		&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Status, validation.In(domain.StatusPending, domain.StatusAccepted, domain.StatusCompleted)),
	)
}

func validateAdvertisement(a domain.Advertisement) error {
	return validation.ValidateStruct(
		&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Title, validation.Required),
	)
}

func validateOne[T any](v T, validate func(T) error) error {
	if err := validate(v); err != nil {
		return decodeError(err)
	}

	return nil
}

func validateAll[T any](items []T, validate func(T) error) error {
	for i, item := range items {
		if err := validate(item); err != nil {
			return decodeError(fmt.Errorf("item %d: %w", i, err))
		}
	}

	return nil
}
