package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// Feed queries order by created_at descending with id as the tiebreak.
// xid values are time-ordered, so the secondary sort keeps equal timestamps
// in creation order and makes feed reads deterministic.
const postOrder = `ORDER BY p.created_at DESC, p.id DESC`

// CreatePost inserts a new post. ID and CreatedAt are generated here; the
// timestamp is the server's current time, immutable afterwards.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Content,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	return nil
}

// GetPostByID retrieves a single post.
// Returns apperror.ErrNotFound if no post exists with that ID.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, content, created_at FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &p, nil
}

// DeletePost removes a post by ID.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking deleted rows: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// ListAllPosts returns every post, newest first.
func (db *DB) ListAllPosts(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	return db.listPosts(ctx,
		`SELECT p.id, p.user_id, p.content, p.created_at
		 FROM posts p `+postOrder+`
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
}

// ListPostsByAuthor returns posts authored by authorID, newest first.
func (db *DB) ListPostsByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Post, error) {
	return db.listPosts(ctx,
		`SELECT p.id, p.user_id, p.content, p.created_at
		 FROM posts p
		 WHERE p.user_id = ? `+postOrder+`
		 LIMIT ? OFFSET ?`,
		authorID, opts.Limit, opts.Offset,
	)
}

// ListFollowingPosts returns posts authored by users that followerID follows,
// newest first: posts joined to follow edges on the followed side, filtered
// to edges whose follower side is the requester.
func (db *DB) ListFollowingPosts(ctx context.Context, followerID string, opts repository.ListOptions) ([]model.Post, error) {
	return db.listPosts(ctx,
		`SELECT p.id, p.user_id, p.content, p.created_at
		 FROM posts p
		 JOIN followers f ON f.user_id = p.user_id
		 WHERE f.follower_id = ? `+postOrder+`
		 LIMIT ? OFFSET ?`,
		followerID, opts.Limit, opts.Offset,
	)
}

func (db *DB) listPosts(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
