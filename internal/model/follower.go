package model

// Follower is a directed follow relationship: UserID is the account being
// followed, FollowerID is the account doing the following.
//
// The pair (UserID, FollowerID) is unique; the database enforces it, so two
// concurrent follow requests for the same pair can never both succeed.
type Follower struct {
	ID         string `json:"id"         db:"id"`
	UserID     string `json:"userId"     db:"user_id"`     // the followed user
	FollowerID string `json:"followerId" db:"follower_id"` // the following user
}

// RelatedUser is one row of a follower/following listing: the counterpart's
// id and username, nothing more.
type RelatedUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
