package domain

import "time"

// Post is a top-level piece of content owned by a user.
type Post struct {
	ID        int64
	Content   string
	ImageURL  string
	CreatedAt time.Time
	OwnerID   int64
}

// Comment belongs to a post; a non-zero ParentID makes it a reply to
// another comment on the same post.
type Comment struct {
	ID        int64
	Content   string
	CreatedAt time.Time
	OwnerID   int64
	PostID    int64
	ParentID  int64
}
