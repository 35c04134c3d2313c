package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
	"github.com/sakif/connectly/internal/telemetry"
)

// Pagination bounds shared by all list endpoints.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// clampListOptions keeps pagination in a sane range so callers can't request
// a million rows.
func clampListOptions(limit, offset int) repository.ListOptions {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.ListOptions{Limit: limit, Offset: offset}
}

// UserService handles registration and user lookups.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Register creates a new user for the verified subject.
//
// Rejected when the username is already taken, when the subject already has
// an account (registration is not idempotent, the second attempt fails), or
// when the username contains non-printable characters. The taken checks are
// best-effort reads; the store's UNIQUE constraints backstop them, so a
// concurrent duplicate surfaces as a conflict rather than a second row.
func (s *UserService) Register(ctx context.Context, subject, username string) (model.FilteredUser, error) {
	if subject == "" {
		return model.FilteredUser{}, apperror.Unauthenticated("no verified identity")
	}

	usernameTaken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return model.FilteredUser{}, fmt.Errorf("checking username: %w", err)
	}
	externalTaken, err := s.users.ExternalIDTaken(ctx, subject)
	if err != nil {
		return model.FilteredUser{}, fmt.Errorf("checking external id: %w", err)
	}
	if usernameTaken || externalTaken {
		return model.FilteredUser{}, apperror.ValidationFailed("username",
			"username or identity already registered")
	}

	if !printableASCII(username) {
		telemetry.InvalidCharacters.WithLabelValues("create_user").Inc()
		return model.FilteredUser{}, apperror.ValidationFailed("username",
			"username contains invalid characters")
	}

	user := &model.User{
		Username:   username,
		ExternalID: subject,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return model.FilteredUser{}, err
	}

	telemetry.UsersCreated.Inc()
	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return user.Filtered(), nil
}

// GetByID returns the public projection of a single user.
// Returns apperror.ErrNotFound if the user doesn't exist.
func (s *UserService) GetByID(ctx context.Context, id string) (model.FilteredUser, error) {
	if id == "" {
		return model.FilteredUser{}, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return model.FilteredUser{}, err
	}

	return user.Filtered(), nil
}

// List returns the public projections of all users, paginated.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.FilteredUser, error) {
	users, err := s.users.ListUsers(ctx, clampListOptions(limit, offset))
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}

	filtered := make([]model.FilteredUser, 0, len(users))
	for i := range users {
		filtered = append(filtered, users[i].Filtered())
	}
	return filtered, nil
}
