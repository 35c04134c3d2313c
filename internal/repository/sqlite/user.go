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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. The ID and CreatedAt are generated here.
//
// The UNIQUE constraints on username and external_id are the authoritative
// arbiter for duplicate registrations: the service layer pre-checks both, but
// a concurrent registration that slips past those checks fails here with
// apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, external_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.ExternalID,
		user.CreatedAt,
	)
	if err != nil {
		return conflict("user", "username or external identity already registered", err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, username, external_id, created_at FROM users WHERE id = ?`, id)
}

// GetUserByExternalID retrieves a user by the identity provider's subject claim.
// Returns apperror.ErrNotFound if no user has registered with that identity.
func (db *DB) GetUserByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, username, external_id, created_at FROM users WHERE external_id = ?`, externalID)
}

func (db *DB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.ExternalID,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", arg, err)
	}

	return &u, nil
}

// UsernameTaken reports whether any user already has the given username.
func (db *DB) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return db.exists(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username)
}

// ExternalIDTaken reports whether any user is already registered with the
// given external identity.
func (db *DB) ExternalIDTaken(ctx context.Context, externalID string) (bool, error) {
	return db.exists(ctx,
		`SELECT COUNT(*) FROM users WHERE external_id = ?`, externalID)
}

func (db *DB) exists(ctx context.Context, query, arg string) (bool, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, fmt.Errorf("sqlite: existence check: %w", err)
	}
	return count > 0, nil
}

// ListUsers returns users ordered by creation, oldest first.
func (db *DB) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, external_id, created_at
		 FROM users
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.ExternalID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}
