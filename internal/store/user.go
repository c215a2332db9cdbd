// Package store provides database access methods for all Inkwell
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

const userColumns = `id, first_name, last_name, email, password_hash,
	occupation, bio, instagram, facebook, linkedin, github, photo_url,
	created_at, updated_at`

// UserStore handles all account-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Occupation, &u.Bio, &u.Instagram, &u.Facebook, &u.LinkedIn,
		&u.GitHub, &u.PhotoURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date. Password hashes stay in
// the struct but are never serialized.
func (s *UserStore) List() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(firstName, lastName, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		firstName, lastName, email, string(hash),
	))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// ProfilePatch holds the optional profile fields of a partial update.
// Nil fields are left untouched.
type ProfilePatch struct {
	FirstName  *string
	LastName   *string
	Occupation *string
	Bio        *string
	Instagram  *string
	Facebook   *string
	LinkedIn   *string
	GitHub     *string
	PhotoURL   *string
}

// UpdateProfile applies a partial profile update. Returns the updated user,
// or nil if the user no longer exists.
func (s *UserStore) UpdateProfile(id uuid.UUID, patch ProfilePatch) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`
		UPDATE users SET
			first_name = COALESCE($1, first_name),
			last_name  = COALESCE($2, last_name),
			occupation = COALESCE($3, occupation),
			bio        = COALESCE($4, bio),
			instagram  = COALESCE($5, instagram),
			facebook   = COALESCE($6, facebook),
			linkedin   = COALESCE($7, linkedin),
			github     = COALESCE($8, github),
			photo_url  = COALESCE($9, photo_url),
			updated_at = NOW()
		WHERE id = $10
		RETURNING `+userColumns,
		patch.FirstName, patch.LastName, patch.Occupation, patch.Bio,
		patch.Instagram, patch.Facebook, patch.LinkedIn, patch.GitHub,
		patch.PhotoURL, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
