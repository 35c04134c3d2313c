// Package service contains the business logic layer: identity resolution,
// registration and follow/post rules, and the feed and relationship queries.
// Services accept primitives and return domain errors from apperror; the
// handler layer translates those to HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
)

// IdentityService maps a verified external subject to an internal user
// record. Read-only; it never creates anything.
type IdentityService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewIdentityService(users repository.UserRepository, logger *slog.Logger) *IdentityService {
	return &IdentityService{users: users, logger: logger}
}

// ResolveSubject returns the user registered with the given subject, or
// (nil, nil) when there is none. "No user yet" is not an error; it means
// the caller is unauthenticated for anything that needs an account, which is
// a different condition from "invalid token" (handled before we get here).
func (s *IdentityService) ResolveSubject(ctx context.Context, subject string) (*model.User, error) {
	if subject == "" {
		return nil, nil
	}

	user, err := s.users.GetUserByExternalID(ctx, subject)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolving subject: %w", err)
	}

	return user, nil
}
