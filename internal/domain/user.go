package domain

import "time"

// User represents a registered account on the platform.
type User struct {
	ID             int64
	Username       string
	HashedPassword string
	Bio            string
	AvatarURL      string
	CreatedAt      time.Time
	UpvoteCount    int64
	DownvoteCount  int64
}

// UserUpdate carries a partial profile update. A nil field is left
// untouched; a non-nil field overwrites, even when it points at an
// empty string.
type UserUpdate struct {
	Bio       *string
	AvatarURL *string
}
