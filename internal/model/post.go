package model

import "time"

// Post is a short text post. Posts are immutable once created; there is no
// edit, only create and delete (by the author).
type Post struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"` // author
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
