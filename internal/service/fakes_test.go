package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
)

// In-memory fakes for the repository interfaces. Hand-written rather than
// generated so the behavior is visible at a glance; they enforce the same
// uniqueness rules the sqlite constraints do.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by internal ID
	nextID int

	// set to a non-nil error to simulate a database failure
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) add(username, externalID string) *model.User {
	u := &model.User{Username: username, ExternalID: externalID}
	_ = f.CreateUser(context.Background(), u)
	return u
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.ExternalID == user.ExternalID {
			return apperror.Conflict("user", "username or external identity already registered")
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", externalID)
}

func (f *fakeUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExternalIDTaken(ctx context.Context, externalID string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, u := range f.users {
		if u.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	users := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if opts.Offset < len(users) {
		users = users[opts.Offset:]
	} else {
		users = nil
	}
	if opts.Limit > 0 && opts.Limit < len(users) {
		users = users[:opts.Limit]
	}
	return users, nil
}

type fakeFollowerRepo struct {
	users  *fakeUserRepo
	edges  map[string]*model.Follower // keyed by edge ID
	nextID int
}

func newFakeFollowerRepo(users *fakeUserRepo) *fakeFollowerRepo {
	return &fakeFollowerRepo{users: users, edges: make(map[string]*model.Follower)}
}

func (f *fakeFollowerRepo) CreateFollower(ctx context.Context, edge *model.Follower) error {
	for _, e := range f.edges {
		if e.UserID == edge.UserID && e.FollowerID == edge.FollowerID {
			return apperror.Conflict("follow", "already following this user")
		}
	}
	f.nextID++
	edge.ID = fmt.Sprintf("edge-%d", f.nextID)
	copied := *edge
	f.edges[edge.ID] = &copied
	return nil
}

func (f *fakeFollowerRepo) GetFollower(ctx context.Context, followedID, followerID string) (*model.Follower, error) {
	for _, e := range f.edges {
		if e.UserID == followedID && e.FollowerID == followerID {
			return e, nil
		}
	}
	return nil, apperror.NotFound("follow", followedID)
}

func (f *fakeFollowerRepo) DeleteFollower(ctx context.Context, followedID, followerID string) error {
	for id, e := range f.edges {
		if e.UserID == followedID && e.FollowerID == followerID {
			delete(f.edges, id)
			return nil
		}
	}
	return apperror.NotFound("follow", followedID)
}

func (f *fakeFollowerRepo) related(resolve func(*model.Follower) string, match func(*model.Follower) bool) []model.RelatedUser {
	related := []model.RelatedUser{}
	for _, e := range f.edges {
		if !match(e) {
			continue
		}
		counterpart := resolve(e)
		if u, ok := f.users.users[counterpart]; ok {
			related = append(related, model.RelatedUser{UserID: u.ID, Username: u.Username})
		}
	}
	return related
}

func (f *fakeFollowerRepo) ListFollowing(ctx context.Context, followerID string) ([]model.RelatedUser, error) {
	return f.related(
		func(e *model.Follower) string { return e.UserID },
		func(e *model.Follower) bool { return e.FollowerID == followerID },
	), nil
}

func (f *fakeFollowerRepo) ListFollowers(ctx context.Context, followedID string) ([]model.RelatedUser, error) {
	return f.related(
		func(e *model.Follower) string { return e.FollowerID },
		func(e *model.Follower) bool { return e.UserID == followedID },
	), nil
}

type fakePostRepo struct {
	followers *fakeFollowerRepo
	posts     []*model.Post
	nextID    int
}

func newFakePostRepo(followers *fakeFollowerRepo) *fakePostRepo {
	return &fakePostRepo{followers: followers}
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *model.Post) error {
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	post.CreatedAt = time.Now()
	copied := *post
	f.posts = append(f.posts, &copied)
	return nil
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperror.NotFound("post", id)
}

func (f *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("post", id)
}

// newestFirst returns matching posts newest first, mirroring the store's
// created_at DESC, id DESC ordering.
func (f *fakePostRepo) newestFirst(opts repository.ListOptions, match func(*model.Post) bool) []model.Post {
	posts := []model.Post{}
	for i := len(f.posts) - 1; i >= 0; i-- {
		if match(f.posts[i]) {
			posts = append(posts, *f.posts[i])
		}
	}
	if opts.Offset < len(posts) {
		posts = posts[opts.Offset:]
	} else {
		posts = []model.Post{}
	}
	if opts.Limit > 0 && opts.Limit < len(posts) {
		posts = posts[:opts.Limit]
	}
	return posts
}

func (f *fakePostRepo) ListAllPosts(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	return f.newestFirst(opts, func(*model.Post) bool { return true }), nil
}

func (f *fakePostRepo) ListPostsByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Post, error) {
	return f.newestFirst(opts, func(p *model.Post) bool { return p.UserID == authorID }), nil
}

func (f *fakePostRepo) ListFollowingPosts(ctx context.Context, followerID string, opts repository.ListOptions) ([]model.Post, error) {
	followed := map[string]bool{}
	for _, e := range f.followers.edges {
		if e.FollowerID == followerID {
			followed[e.UserID] = true
		}
	}
	return f.newestFirst(opts, func(p *model.Post) bool { return followed[p.UserID] }), nil
}
