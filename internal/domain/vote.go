package domain

// Vote values.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote records a user's up/down vote on exactly one of a post or a
// comment (the unused target id is zero).
type Vote struct {
	ID        int64
	UserID    int64
	PostID    int64
	CommentID int64
	Value     int
}
