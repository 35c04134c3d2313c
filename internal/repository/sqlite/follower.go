package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/connectly/internal/apperror"
	"github.com/sakif/connectly/internal/model"
	"github.com/sakif/connectly/internal/repository"
)

// compile-time check that *DB implements repository.FollowerRepository
var _ repository.FollowerRepository = (*DB)(nil)

// CreateFollower inserts a follow edge. The UNIQUE (user_id, follower_id) constraint
// rejects a duplicate edge created by a concurrent request with
// apperror.ErrConflict.
func (db *DB) CreateFollower(ctx context.Context, edge *model.Follower) error {
	edge.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO followers (id, user_id, follower_id)
		 VALUES (?, ?, ?)`,
		edge.ID,
		edge.UserID,
		edge.FollowerID,
	)
	if err != nil {
		return conflict("follow", "already following this user", err)
	}

	return nil
}

// GetFollower fetches the edge where followedID is followed by followerID.
// Returns apperror.ErrNotFound if no such edge exists.
func (db *DB) GetFollower(ctx context.Context, followedID, followerID string) (*model.Follower, error) {
	var e model.Follower

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, follower_id FROM followers
		 WHERE user_id = ? AND follower_id = ?`,
		followedID, followerID,
	).Scan(&e.ID, &e.UserID, &e.FollowerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("follow", followedID)
		}
		return nil, fmt.Errorf("sqlite: getting follow edge: %w", err)
	}

	return &e, nil
}

// DeleteFollower removes the edge for the pair. Returns apperror.ErrNotFound if the
// pair had no edge (for example an unfollow that raced another unfollow).
func (db *DB) DeleteFollower(ctx context.Context, followedID, followerID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM followers WHERE user_id = ? AND follower_id = ?`,
		followedID, followerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting follow edge: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking deleted rows: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("follow", followedID)
	}

	return nil
}

// ListFollowing returns the users that followerID follows, the edges where
// followerID is the follower side, joined to users to resolve the followed
// side's username.
func (db *DB) ListFollowing(ctx context.Context, followerID string) ([]model.RelatedUser, error) {
	return db.listRelated(ctx,
		`SELECT u.id, u.username
		 FROM followers f
		 JOIN users u ON u.id = f.user_id
		 WHERE f.follower_id = ?`,
		followerID,
	)
}

// ListFollowers returns the users that follow followedID, the edges where
// followedID is the followed side, joined to users to resolve each
// follower's username.
func (db *DB) ListFollowers(ctx context.Context, followedID string) ([]model.RelatedUser, error) {
	return db.listRelated(ctx,
		`SELECT u.id, u.username
		 FROM followers f
		 JOIN users u ON u.id = f.follower_id
		 WHERE f.user_id = ?`,
		followedID,
	)
}

func (db *DB) listRelated(ctx context.Context, query, arg string) ([]model.RelatedUser, error) {
	rows, err := db.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing relationships: %w", err)
	}
	defer rows.Close()

	related := []model.RelatedUser{}
	for rows.Next() {
		var r model.RelatedUser
		if err := rows.Scan(&r.UserID, &r.Username); err != nil {
			return nil, fmt.Errorf("sqlite: scanning relationship: %w", err)
		}
		related = append(related, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating relationships: %w", err)
	}

	return related, nil
}
