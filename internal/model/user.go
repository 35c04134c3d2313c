// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Identity lives in an external OAuth2/JWT provider: users never set a
// password here. ExternalID is the provider's subject claim, stored once at
// registration and never changed afterwards. We still generate our own
// internal string ID (xid) so our primary keys aren't tied to a third-party's
// numbering scheme.
//
// ExternalID is deliberately excluded from JSON: it must never leave the
// server. Anything returned to a client goes through Filtered().
type User struct {
	ID         string    `json:"id"         db:"id"`
	Username   string    `json:"username"   db:"username"`
	ExternalID string    `json:"-"          db:"external_id"` // identity provider subject claim
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}

// FilteredUser is the public projection of a User, the only shape of a user
// record the API ever serializes.
type FilteredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Filtered returns the public projection of the user.
func (u *User) Filtered() FilteredUser {
	return FilteredUser{ID: u.ID, Username: u.Username}
}
