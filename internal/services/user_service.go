package services

import (
	"context"
	"fmt"

	"finances/internal/auth"
	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/storage"
)

// UserService is the self-scoped users resource. It shares the generic
// resource behaviour but normalizes emails and hashes passwords on write.
type UserService struct {
	*ResourceService[core.User]
	auth *AuthService
}

func NewUserService(users *storage.UserRepository, authService *AuthService, publisher Publisher, logger *log.Logger) *UserService {
	return &UserService{
		ResourceService: NewResourceService(users.Repository, publisher, logger),
		auth:            authService,
	}
}

// Create registers a new user; the caller's identity is not involved.
func (s *UserService) Create(ctx context.Context, _ int64, values storage.Values) (core.User, error) {
	email, _ := values["email"].(string)
	password, _ := values["password"].(string)
	return s.auth.Register(ctx, email, password)
}

// Update changes the caller's own email and/or password.
func (s *UserService) Update(ctx context.Context, userID, id int64, values storage.Values) (core.User, error) {
	if id != userID {
		return core.User{}, core.ErrNotFound
	}

	if v, ok := values["email"]; ok {
		email := core.NormalizeEmail(v.(string))
		if err := core.ValidateEmail(email); err != nil {
			return core.User{}, credentialError(err)
		}
		values["email"] = email
	}

	if v, ok := values["password"]; ok {
		password := v.(string)
		if password == "" {
			return core.User{}, core.NewValidationError("password", "must not be empty")
		}
		if err := core.ValidatePassword(password); err != nil {
			return core.User{}, credentialError(err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return core.User{}, fmt.Errorf("hash password: %w", err)
		}
		values["password"] = hash
	}

	return s.ResourceService.Update(ctx, userID, id, values)
}
