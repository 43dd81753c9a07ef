package service

import (
	"context"
	"fmt"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
)

type ProfileService struct{}

func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// Me reads the operator's profile from MecaLink.
func (s *ProfileService) Me(ctx context.Context, caller Caller) (domain.User, error) {
	user, err := caller.API.Me(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("caller.API.Me -> %w", caller.check(ctx, err))
	}

	return user, nil
}

// UpdateProfile saves the profile and refreshes the session user. An empty
// password is not sent.
func (s *ProfileService) UpdateProfile(ctx context.Context, caller Caller, update mecalink.ProfileUpdate) (domain.User, string, error) {
	user, msg, err := caller.API.UpdateProfile(ctx, update)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("caller.API.UpdateProfile -> %w", caller.check(ctx, err))
	}

	if err = caller.Store.Set(ctx, caller.Store.Token(), user); err != nil {
		return domain.User{}, "", fmt.Errorf("caller.Store.Set -> %w", err)
	}

	return user, msg, nil
}
