// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage is the concrete implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/connectly/internal/model"
)

// ListOptions carries pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// CreateUser inserts the user, generating ID and CreatedAt. Returns
	// apperror.ErrConflict if the username or external id is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByExternalID looks up a user by the identity provider's subject.
	// Returns apperror.ErrNotFound when no such user exists.
	GetUserByExternalID(ctx context.Context, externalID string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	ExternalIDTaken(ctx context.Context, externalID string) (bool, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, error)
}

type FollowerRepository interface {
	// CreateFollower inserts the edge, generating its ID. Returns
	// apperror.ErrConflict if the (followed, follower) pair already exists.
	CreateFollower(ctx context.Context, edge *model.Follower) error
	// GetFollower fetches the edge where followedID is followed by followerID.
	GetFollower(ctx context.Context, followedID, followerID string) (*model.Follower, error)
	// DeleteFollower removes the edge for the pair. Returns
	// apperror.ErrNotFound if there is no such edge.
	DeleteFollower(ctx context.Context, followedID, followerID string) error
	// ListFollowing returns the users that followerID follows.
	ListFollowing(ctx context.Context, followerID string) ([]model.RelatedUser, error)
	// ListFollowers returns the users that follow followedID.
	ListFollowers(ctx context.Context, followedID string) ([]model.RelatedUser, error)
}

type PostRepository interface {
	// CreatePost inserts the post, generating ID and stamping CreatedAt with
	// the server's current time.
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	// ListAllPosts returns every post, newest first.
	ListAllPosts(ctx context.Context, opts ListOptions) ([]model.Post, error)
	// ListPostsByAuthor returns authorID's posts, newest first.
	ListPostsByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Post, error)
	// ListFollowingPosts returns posts authored by users that followerID
	// follows, newest first.
	ListFollowingPosts(ctx context.Context, followerID string, opts ListOptions) ([]model.Post, error)
}
