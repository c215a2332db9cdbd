package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CommentStore handles comment database operations, including the like set
// and the denormalized like counter kept in lockstep with it.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a new comment under a post.
func (s *CommentStore) Create(postID, userID uuid.UUID, content string) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (content, post_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, content, post_id, user_id, number_of_likes, created_at, updated_at
	`, content, postID, userID).Scan(
		&c.ID, &c.Content, &c.PostID, &c.UserID, &c.NumberOfLikes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	c.Likes = []uuid.UUID{}
	return c, nil
}

// FindByID retrieves a comment by its UUID, including its like set.
// Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRow(`
		SELECT id, content, post_id, user_id, number_of_likes, created_at, updated_at
		FROM comments WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Content, &c.PostID, &c.UserID, &c.NumberOfLikes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}

	c.Likes, err = s.likesOf(id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// likesOf returns the like set of a single comment.
func (s *CommentStore) likesOf(commentID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`SELECT user_id FROM comment_likes WHERE comment_id = $1`, commentID)
	if err != nil {
		return nil, fmt.Errorf("comment likes: %w", err)
	}
	defer rows.Close()

	likes := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan comment like: %w", err)
		}
		likes = append(likes, id)
	}
	return likes, rows.Err()
}

// UpdateContent replaces a comment's text. Ownership is checked by the
// caller before the update is issued.
func (s *CommentStore) UpdateContent(id uuid.UUID, content string) error {
	_, err := s.db.Exec(`
		UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2
	`, content, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment. The post→comment reference disappears with the
// row itself, so no second-side update is needed.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ToggleLike adds the user to the comment's like set, or removes them if
// already present. The denormalized counter moves with the set inside one
// transaction, using an in-database increment so concurrent toggles from
// different users cannot lose updates. Returns true if the comment is now
// liked by the user.
func (s *CommentStore) ToggleLike(commentID, userID uuid.UUID) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("toggle like begin: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2)
	`, commentID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("toggle like check: %w", err)
	}

	if exists {
		if _, err := tx.Exec(`
			DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2
		`, commentID, userID); err != nil {
			return false, fmt.Errorf("toggle like remove: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE comments SET number_of_likes = number_of_likes - 1 WHERE id = $1
		`, commentID); err != nil {
			return false, fmt.Errorf("toggle like decrement: %w", err)
		}
	} else {
		if _, err := tx.Exec(`
			INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)
		`, commentID, userID); err != nil {
			return false, fmt.Errorf("toggle like add: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE comments SET number_of_likes = number_of_likes + 1 WHERE id = $1
		`, commentID); err != nil {
			return false, fmt.Errorf("toggle like increment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("toggle like commit: %w", err)
	}
	return !exists, nil
}

// ListForPost returns a post's comments, newest first, with authors
// expanded. An unknown post yields an empty list.
func (s *CommentStore) ListForPost(postID uuid.UUID) ([]models.CommentView, error) {
	return s.listViews(`c.post_id = $1`, postID)
}

// ListForAuthorPosts returns every comment on any post owned by the given
// author, newest first, with authors expanded.
func (s *CommentStore) ListForAuthorPosts(authorID uuid.UUID) ([]models.CommentView, error) {
	return s.listViews(`c.post_id IN (SELECT id FROM posts WHERE author_id = $1)`, authorID)
}

// ViewByID returns one comment with its author expanded and like set
// loaded. Returns nil if not found.
func (s *CommentStore) ViewByID(id uuid.UUID) (*models.CommentView, error) {
	views, err := s.listViews(`c.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, nil
	}
	return &views[0], nil
}

// listViews assembles comment projections for a WHERE clause over the
// comments table aliased as c.
func (s *CommentStore) listViews(where string, args ...any) ([]models.CommentView, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.content, c.post_id, c.user_id, c.number_of_likes,
		       c.created_at, c.updated_at,
		       u.id, u.first_name, u.last_name, u.photo_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE `+where+`
		ORDER BY c.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	views := []models.CommentView{}
	for rows.Next() {
		var cv models.CommentView
		if err := rows.Scan(
			&cv.ID, &cv.Content, &cv.PostID, &cv.UserID, &cv.NumberOfLikes,
			&cv.CreatedAt, &cv.UpdatedAt,
			&cv.Author.ID, &cv.Author.FirstName, &cv.Author.LastName, &cv.Author.PhotoURL,
		); err != nil {
			return nil, fmt.Errorf("scan comment view: %w", err)
		}
		cv.Likes = []uuid.UUID{}
		views = append(views, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	likeRows, err := s.db.Query(`
		SELECT cl.comment_id, cl.user_id
		FROM comment_likes cl
		JOIN comments c ON c.id = cl.comment_id
		WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list comment likes: %w", err)
	}
	defer likeRows.Close()

	index := map[uuid.UUID]int{}
	for i, v := range views {
		index[v.ID] = i
	}
	for likeRows.Next() {
		var commentID, userID uuid.UUID
		if err := likeRows.Scan(&commentID, &userID); err != nil {
			return nil, fmt.Errorf("scan comment like: %w", err)
		}
		if i, ok := index[commentID]; ok {
			views[i].Likes = append(views[i].Likes, userID)
		}
	}
	return views, likeRows.Err()
}
