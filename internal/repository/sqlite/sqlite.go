// Package sqlite implements the repository interfaces on SQLite.
//
// We use modernc.org/sqlite (pure Go, no CGo) through database/sql. The
// uniqueness rules of the data model (one username, one external identity,
// one follow edge per pair) are enforced here with UNIQUE constraints.
// Concurrent writers that pass the service layer's best-effort checks are
// arbitrated by those constraints: the loser gets a conflict error, never a
// silent duplicate.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/sakif/connectly/internal/apperror"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath, applies pragmas and
// runs pending migrations. Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows a single writer, and the pragmas below are
	// per-connection. One pooled connection keeps both correct (and keeps
	// ":memory:" pointing at one database instead of one per connection).
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. Followers and posts
	// reference users, so we need them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate applies the embedded SQL migrations with goose.
func migrate(conn *sql.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	return goose.Up(conn, "migrations")
}

// isConstraintErr reports whether err is a SQLite constraint violation
// (UNIQUE, FOREIGN KEY, ...). The modernc driver does not export a typed
// error for this, so we match on the message it produces.
func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// conflict translates a constraint violation into apperror.Conflict and
// wraps everything else.
func conflict(resource, message string, err error) error {
	if isConstraintErr(err) {
		return apperror.Conflict(resource, message)
	}
	return fmt.Errorf("sqlite: inserting %s: %w", resource, err)
}
