// Package users serves the authenticated user's own profile.
package users

import (
	"context"
	"errors"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/store"
)

// UserService reads profiles from the user store.
type UserService struct {
	users store.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the profile for email. A token can outlive its account,
// so a missing user is NotFound rather than Unauthorized.
func (s *UserService) GetProfile(ctx context.Context, email string) (*Profile, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewStoreUnavailableError("failed to get user profile", err)
	}
	return &Profile{Name: user.Name, Email: user.Email}, nil
}
