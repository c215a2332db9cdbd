package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog article owned by exactly one user. The Likes
// slice holds the IDs of users who liked the post; membership is unique.
type Post struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Subtitle    *string     `json:"subtitle,omitempty"`
	Description *string     `json:"description,omitempty"`
	Category    string      `json:"category"`
	Thumbnail   *string     `json:"thumbnail,omitempty"`
	AuthorID    uuid.UUID   `json:"authorId"`
	IsPublished bool        `json:"isPublished"`
	Likes       []uuid.UUID `json:"likes"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// PostView is a post with its author expanded to the public-safe
// projection and its comments nested, newest first. This is the shape
// returned by the list endpoints.
type PostView struct {
	Post
	Author   Author        `json:"author"`
	Comments []CommentView `json:"comments"`
}

// LikeTotals aggregates a user's posts and the likes across them.
type LikeTotals struct {
	TotalBlogs int `json:"totalBlogs"`
	TotalLikes int `json:"totalLikes"`
}
