package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
)

// Relationship listing directions.
const (
	DirectionFollowing = "following" // users the requester follows (default)
	DirectionFollowers = "followers" // users following the requester
)

// FollowService handles follow edges and relationship listings.
type FollowService struct {
	users     repository.UserRepository
	followers repository.FollowerRepository
	logger    *slog.Logger
}

func NewFollowService(users repository.UserRepository, followers repository.FollowerRepository, logger *slog.Logger) *FollowService {
	return &FollowService{users: users, followers: followers, logger: logger}
}

// Follow creates a follow edge from the requester to the target and returns
// the edge ID.
//
// Rejected when the target doesn't exist (NotFound), when the requester is
// the target (no self-follow), or when the edge already exists. The duplicate
// check is best-effort; the pair-unique constraint in the store decides races.
func (s *FollowService) Follow(ctx context.Context, requester *model.User, targetID string) (string, error) {
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return "", err
	}

	if requester.ID == targetID {
		return "", apperror.ValidationFailed("userId", "cannot follow yourself")
	}

	_, err := s.followers.GetFollower(ctx, targetID, requester.ID)
	if err == nil {
		return "", apperror.ValidationFailed("userId", "already following this user")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("checking follow edge: %w", err)
	}

	edge := &model.Follower{
		UserID:     targetID,
		FollowerID: requester.ID,
	}
	if err := s.followers.CreateFollower(ctx, edge); err != nil {
		s.logger.Error("failed to create follow edge",
			slog.String("follower", requester.ID),
			slog.String("followed", targetID),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	s.logger.Info("follow created",
		slog.String("id", edge.ID),
		slog.String("follower", requester.ID),
		slog.String("followed", targetID),
	)

	return edge.ID, nil
}

// Unfollow removes the requester's follow edge to the target.
//
// A missing target user is NotFound; a missing edge is a validation failure
// (you weren't following them).
func (s *FollowService) Unfollow(ctx context.Context, requester *model.User, targetID string) error {
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.followers.DeleteFollower(ctx, targetID, requester.ID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("userId", "not following this user")
		}
		return fmt.Errorf("deleting follow edge: %w", err)
	}

	s.logger.Info("follow removed",
		slog.String("follower", requester.ID),
		slog.String("followed", targetID),
	)

	return nil
}

// ListRelationship returns the requester's followers or following as
// (id, username) pairs. Direction is case-insensitive; empty defaults to
// "following". Result order is the edge scan order; callers must not assume
// anything chronological.
func (s *FollowService) ListRelationship(ctx context.Context, requester *model.User, direction string) ([]model.RelatedUser, error) {
	switch strings.ToLower(direction) {
	case DirectionFollowing, "":
		return s.followers.ListFollowing(ctx, requester.ID)
	case DirectionFollowers:
		return s.followers.ListFollowers(ctx, requester.ID)
	default:
		return nil, apperror.ValidationFailed("direction",
			`direction must be "followers" or "following"`)
	}
}
