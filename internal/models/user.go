// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. The password hash is never
// serialized; profile fields are optional and nullable.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Occupation   *string   `json:"occupation,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Instagram    *string   `json:"instagram,omitempty"`
	Facebook     *string   `json:"facebook,omitempty"`
	LinkedIn     *string   `json:"linkedin,omitempty"`
	GitHub       *string   `json:"github,omitempty"`
	PhotoURL     *string   `json:"photoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Author is the reduced view of a user that is safe to embed in post and
// comment responses: display name and avatar only.
type Author struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	PhotoURL  *string   `json:"photoUrl,omitempty"`
}

// AsAuthor returns the public-safe projection of the user.
func (u *User) AsAuthor() Author {
	return Author{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
	}
}
