package services

import (
	"context"
	"errors"
	"fmt"

	"finances/internal/amqp"
	"finances/internal/auth"
	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/storage"
)

// AuthService registers users, checks credentials and resolves bearer
// tokens to user ids.
type AuthService struct {
	users     *storage.UserRepository
	tokens    *auth.TokenService
	publisher Publisher
	logger    *log.Logger
}

func NewAuthService(users *storage.UserRepository, tokens *auth.TokenService, publisher Publisher, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.Discard()
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentAuth),
	}
}

// Register creates a user. The email is normalized before it is validated
// and stored.
func (s *AuthService) Register(ctx context.Context, email, password string) (core.User, error) {
	email = core.NormalizeEmail(email)
	if err := credentialError(core.ValidateCredentials(email, password)); err != nil {
		return core.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Register(ctx, email, hash)
	if err != nil {
		return core.User{}, fmt.Errorf("register: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", log.FieldUserID, u.ID)
	publish(ctx, s.publisher, s.logger, amqp.NewChangeMessage(storage.Users.Resource, amqp.ActionCreated, u.ID, u.ID))
	return u, nil
}

// Login returns a signed token for valid credentials. Unknown emails and
// wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", core.NewValidationError("", "email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, core.NormalizeEmail(email))
	if errors.Is(err, core.ErrNotFound) {
		return "", core.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if !auth.IsHash(u.PasswordHash) {
		s.logger.WarnContext(ctx, "Stored password is not a bcrypt hash", log.FieldUserID, u.ID)
		return "", core.NewValidationError("password", "stored credentials are unusable")
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return "", core.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "User logged in", log.FieldUserID, u.ID)
	return token, nil
}

// Authenticate resolves an Authorization header value to a user id.
func (s *AuthService) Authenticate(header string) (int64, error) {
	userID, err := s.tokens.FromHeader(header)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrUnauthenticated, err)
	}
	return userID, nil
}

func credentialError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrEmptyPassword):
		return core.NewValidationError("password", "is required")
	case errors.Is(err, core.ErrLongPassword):
		return core.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", core.MaxPasswordBytes))
	case errors.Is(err, core.ErrEmptyEmail):
		return core.NewValidationError("email", "is required")
	default:
		return core.NewValidationError("email", err.Error())
	}
}
