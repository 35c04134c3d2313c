package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
	"github.com/sakif/connectly/internal/telemetry"
)

// Feed modes. Matching is case-insensitive and anything unrecognized falls
// back to FeedAll.
const (
	FeedAll       = "all"       // every post
	FeedUser      = "user"      // the requester's own posts
	FeedFollowing = "following" // posts by users the requester follows
)

// PostService handles post creation, deletion and the feed queries.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// ListFeed returns posts for the requester under the given feed mode, newest
// first. Reading the same feed twice with no intervening writes returns
// identical content and order.
func (s *PostService) ListFeed(ctx context.Context, requester *model.User, mode string, limit, offset int) ([]model.Post, error) {
	opts := clampListOptions(limit, offset)

	switch strings.ToLower(mode) {
	case FeedUser:
		return s.posts.ListPostsByAuthor(ctx, requester.ID, opts)
	case FeedFollowing:
		return s.posts.ListFollowingPosts(ctx, requester.ID, opts)
	default:
		return s.posts.ListAllPosts(ctx, opts)
	}
}

// GetByID returns a single post. Any authenticated user may fetch any post.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.posts.GetPostByID(ctx, id)
}

// Create validates and saves a new post for the author, returning it with
// the server-stamped creation time.
func (s *PostService) Create(ctx context.Context, author *model.User, content string) (*model.Post, error) {
	if content == "" {
		return nil, apperror.ValidationFailed("content", "post content is required")
	}
	if !printableASCII(content) {
		telemetry.InvalidCharacters.WithLabelValues("create_post").Inc()
		return nil, apperror.ValidationFailed("content",
			"post content contains invalid characters")
	}

	post := &model.Post{
		UserID:  author.ID,
		Content: content,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("author", author.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	telemetry.PostsCreated.Inc()
	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("author", author.ID),
	)

	return post, nil
}

// Delete removes a post by ID, author-only.
//
// Existence is checked before ownership: a missing post is NotFound even when
// the requester wouldn't own it, and only an existing foreign post is
// Forbidden.
func (s *PostService) Delete(ctx context.Context, requester *model.User, id string) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}

	if post.UserID != requester.ID {
		return apperror.Forbidden("you can only delete your own posts")
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}

	telemetry.PostsDeleted.Inc()
	s.logger.Info("post deleted",
		slog.String("id", id),
		slog.String("author", requester.ID),
	)

	return nil
}
