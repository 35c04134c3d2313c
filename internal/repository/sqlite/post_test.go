package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
)

func createTestPost(t *testing.T, db *DB, author *model.User, content string) *model.Post {
	t.Helper()
	post := &model.Post{UserID: author.ID, Content: content}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func TestCreatePost(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "auth0|alice")

	post := &model.Post{UserID: alice.ID, Content: "hello world"}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if post.ID == "" {
		t.Error("CreatePost() did not set post.ID")
	}
	if post.CreatedAt.IsZero() {
		t.Error("CreatePost() did not set post.CreatedAt")
	}
}

func TestGetPostByID(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "auth0|alice")
	created := createTestPost(t, db, alice, "fetch me")

	found, err := db.GetPostByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPostByID() error = %v", err)
	}
	if found.Content != "fetch me" {
		t.Errorf("Content = %q, want %q", found.Content, "fetch me")
	}
	if found.UserID != alice.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, alice.ID)
	}
}

func TestGetPostByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPostByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPostByID() error = %v, want ErrNotFound", err)
	}
}

func TestDeletePost(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "auth0|alice")
	post := createTestPost(t, db, alice, "to delete")

	if err := db.DeletePost(context.Background(), post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}

	_, err := db.GetPostByID(context.Background(), post.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPostByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestDeletePost_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeletePost(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeletePost() error = %v, want ErrNotFound", err)
	}
}

func TestListAllPosts_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "auth0|alice")

	first := createTestPost(t, db, alice, "first")
	second := createTestPost(t, db, alice, "second")
	third := createTestPost(t, db, alice, "third")

	posts, err := db.ListAllPosts(context.Background(), repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListAllPosts() error = %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("ListAllPosts() returned %d, want 3", len(posts))
	}

	// Descending by creation: third, second, first. Equal timestamps fall
	// back to id order, and xid is time-ordered, so this is deterministic.
	wantOrder := []string{third.ID, second.ID, first.ID}
	for i, want := range wantOrder {
		if posts[i].ID != want {
			t.Errorf("posts[%d].ID = %q, want %q", i, posts[i].ID, want)
		}
	}
}

func TestListPostsByAuthor(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "auth0|alice")
	bob := createTestUser(t, db, "bob", "auth0|bob")

	createTestPost(t, db, alice, "from alice")
	createTestPost(t, db, bob, "from bob 1")
	createTestPost(t, db, bob, "from bob 2")

	posts, err := db.ListPostsByAuthor(context.Background(), bob.ID, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListPostsByAuthor() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ListPostsByAuthor() returned %d, want 2", len(posts))
	}
	for _, p := range posts {
		if p.UserID != bob.ID {
			t.Errorf("post %s authored by %q, want %q", p.ID, p.UserID, bob.ID)
		}
	}
}

func TestListFollowingPosts(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "auth0|alice")
	bob := createTestUser(t, db, "bob", "auth0|bob")
	carol := createTestUser(t, db, "carol", "auth0|carol")

	// alice follows bob only.
	follow(t, db, bob, alice)

	createTestPost(t, db, alice, "own post")
	bobPost := createTestPost(t, db, bob, "bob's post")
	createTestPost(t, db, carol, "carol's post")

	// Posts by people alice follows: only bob's.
	posts, err := db.ListFollowingPosts(context.Background(), alice.ID, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListFollowingPosts() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("ListFollowingPosts() returned %d, want 1", len(posts))
	}
	if posts[0].ID != bobPost.ID {
		t.Errorf("ListFollowingPosts()[0].ID = %q, want %q", posts[0].ID, bobPost.ID)
	}

	// The reverse direction sees nothing: bob follows no one.
	posts, err = db.ListFollowingPosts(context.Background(), bob.ID, repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("ListFollowingPosts() error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("ListFollowingPosts(bob) returned %d, want 0", len(posts))
	}
}

func TestListFollowingPosts_Idempotent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "auth0|alice")
	bob := createTestUser(t, db, "bob", "auth0|bob")
	follow(t, db, bob, alice)

	createTestPost(t, db, bob, "one")
	createTestPost(t, db, bob, "two")
	createTestPost(t, db, bob, "three")

	opts := repository.ListOptions{Limit: 10}
	first, err := db.ListFollowingPosts(context.Background(), alice.ID, opts)
	if err != nil {
		t.Fatalf("ListFollowingPosts() error = %v", err)
	}
	second, err := db.ListFollowingPosts(context.Background(), alice.ID, opts)
	if err != nil {
		t.Fatalf("ListFollowingPosts() error = %v", err)
	}

	// Same query, no intervening writes: identical content and order.
	if len(first) != len(second) {
		t.Fatalf("feed lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("feed order differs at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}
