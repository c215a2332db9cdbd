package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply attached to exactly one post. NumberOfLikes is kept
// denormalized and moves in lockstep with the likes set.
type Comment struct {
	ID            uuid.UUID   `json:"id"`
	Content       string      `json:"content"`
	PostID        uuid.UUID   `json:"postId"`
	UserID        uuid.UUID   `json:"userId"`
	Likes         []uuid.UUID `json:"likes"`
	NumberOfLikes int         `json:"numberOfLikes"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// CommentView is a comment with its author expanded to the public-safe
// projection.
type CommentView struct {
	Comment
	Author Author `json:"author"`
}
