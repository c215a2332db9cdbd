package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

const postColumns = `id, title, subtitle, description, category, thumbnail,
	author_id, is_published, created_at, updated_at`

// PostStore handles all blog-post database operations, including the like
// set kept in the post_likes table.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Subtitle, &p.Description, &p.Category,
		&p.Thumbnail, &p.AuthorID, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new unpublished post owned by the given author.
func (s *PostStore) Create(authorID uuid.UUID, title, category string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		INSERT INTO posts (title, category, author_id)
		VALUES ($1, $2, $3)
		RETURNING `+postColumns,
		title, category, authorID,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	p.Likes = []uuid.UUID{}
	return p, nil
}

// FindByID retrieves a post by its UUID, including its like set.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	p.Likes, err = s.likesOf(id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// likesOf returns the like set of a single post.
func (s *PostStore) likesOf(postID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`SELECT user_id FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return nil, fmt.Errorf("post likes: %w", err)
	}
	defer rows.Close()

	likes := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan post like: %w", err)
		}
		likes = append(likes, id)
	}
	return likes, rows.Err()
}

// PostPatch holds the optional content fields of a partial post update.
// Nil fields are left untouched.
type PostPatch struct {
	Title       *string
	Subtitle    *string
	Description *string
	Category    *string
	Thumbnail   *string
}

// Update applies a partial update to a post's content fields. Returns the
// updated post, or nil if the post no longer exists. Ownership is checked
// by the caller before an update is issued.
func (s *PostStore) Update(id uuid.UUID, patch PostPatch) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		UPDATE posts SET
			title       = COALESCE($1, title),
			subtitle    = COALESCE($2, subtitle),
			description = COALESCE($3, description),
			category    = COALESCE($4, category),
			thumbnail   = COALESCE($5, thumbnail),
			updated_at  = NOW()
		WHERE id = $6
		RETURNING `+postColumns,
		patch.Title, patch.Subtitle, patch.Description, patch.Category,
		patch.Thumbnail, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	p.Likes, err = s.likesOf(id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a post and cascades deletion of every comment attached to
// it. Both sides are deleted in one transaction so no dangling comment can
// survive a partial failure.
func (s *PostStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete post begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete post commit: %w", err)
	}
	return nil
}

// Like adds a user to a post's like set. A repeat like is a no-op.
func (s *PostStore) Like(postID, userID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("like post: %w", err)
	}
	return nil
}

// Unlike removes a user from a post's like set. Removing an absent like is
// a no-op.
func (s *PostStore) Unlike(postID, userID uuid.UUID) error {
	_, err := s.db.Exec(`
		DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("unlike post: %w", err)
	}
	return nil
}

// TogglePublish flips the published flag and returns the new state.
// The caller verifies the post exists first.
func (s *PostStore) TogglePublish(id uuid.UUID) (bool, error) {
	var published bool
	err := s.db.QueryRow(`
		UPDATE posts SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1
		RETURNING is_published
	`, id).Scan(&published)
	if err != nil {
		return false, fmt.Errorf("toggle publish: %w", err)
	}
	return published, nil
}

// LikeTotals returns how many posts an author owns and the summed size of
// their like sets.
func (s *PostStore) LikeTotals(authorID uuid.UUID) (models.LikeTotals, error) {
	var totals models.LikeTotals
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT p.id), COUNT(l.user_id)
		FROM posts p
		LEFT JOIN post_likes l ON l.post_id = p.id
		WHERE p.author_id = $1
	`, authorID).Scan(&totals.TotalBlogs, &totals.TotalLikes)
	if err != nil {
		return totals, fmt.Errorf("like totals: %w", err)
	}
	return totals, nil
}

// postFilter selects which posts a view query covers.
type postFilter struct {
	where string
	args  []any
}

// filterAll matches every post.
func filterAll() postFilter { return postFilter{where: "TRUE"} }

// filterPublished matches published posts only.
func filterPublished() postFilter { return postFilter{where: "p.is_published"} }

// filterAuthor matches posts owned by one author.
func filterAuthor(authorID uuid.UUID) postFilter {
	return postFilter{where: "p.author_id = $1", args: []any{authorID}}
}

// ListAll returns every post, newest first, with authors and comments
// expanded.
func (s *PostStore) ListAll() ([]models.PostView, error) {
	return s.listViews(filterAll())
}

// ListPublished returns published posts only, newest first, with authors
// and comments expanded.
func (s *PostStore) ListPublished() ([]models.PostView, error) {
	return s.listViews(filterPublished())
}

// ListByAuthor returns one author's posts, newest first, with authors and
// comments expanded.
func (s *PostStore) ListByAuthor(authorID uuid.UUID) ([]models.PostView, error) {
	return s.listViews(filterAuthor(authorID))
}

// listViews assembles the full post projection for a filter: post rows
// joined to their author, like sets, and nested comments (newest first)
// with comment authors and like sets. Four queries total, independent of
// the number of posts.
func (s *PostStore) listViews(f postFilter) ([]models.PostView, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.title, p.subtitle, p.description, p.category,
		       p.thumbnail, p.author_id, p.is_published, p.created_at, p.updated_at,
		       u.id, u.first_name, u.last_name, u.photo_url
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE `+f.where+`
		ORDER BY p.created_at DESC
	`, f.args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	views := []models.PostView{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var v models.PostView
		if err := rows.Scan(
			&v.ID, &v.Title, &v.Subtitle, &v.Description, &v.Category,
			&v.Thumbnail, &v.AuthorID, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
			&v.Author.ID, &v.Author.FirstName, &v.Author.LastName, &v.Author.PhotoURL,
		); err != nil {
			return nil, fmt.Errorf("scan post view: %w", err)
		}
		v.Likes = []uuid.UUID{}
		v.Comments = []models.CommentView{}
		index[v.ID] = len(views)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.fillLikes(f, views, index); err != nil {
		return nil, err
	}
	if err := s.fillComments(f, views, index); err != nil {
		return nil, err
	}
	return views, nil
}

// fillLikes attaches the like sets of the filtered posts.
func (s *PostStore) fillLikes(f postFilter, views []models.PostView, index map[uuid.UUID]int) error {
	rows, err := s.db.Query(`
		SELECT pl.post_id, pl.user_id
		FROM post_likes pl
		JOIN posts p ON p.id = pl.post_id
		WHERE `+f.where, f.args...)
	if err != nil {
		return fmt.Errorf("list post likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID uuid.UUID
		if err := rows.Scan(&postID, &userID); err != nil {
			return fmt.Errorf("scan post like: %w", err)
		}
		if i, ok := index[postID]; ok {
			views[i].Likes = append(views[i].Likes, userID)
		}
	}
	return rows.Err()
}

// fillComments attaches the nested comments (newest first, authors
// expanded, like sets included) of the filtered posts.
func (s *PostStore) fillComments(f postFilter, views []models.PostView, index map[uuid.UUID]int) error {
	// Like sets first, so each comment can be assembled in one pass.
	likeRows, err := s.db.Query(`
		SELECT cl.comment_id, cl.user_id
		FROM comment_likes cl
		JOIN comments c ON c.id = cl.comment_id
		JOIN posts p ON p.id = c.post_id
		WHERE `+f.where, f.args...)
	if err != nil {
		return fmt.Errorf("list nested comment likes: %w", err)
	}
	defer likeRows.Close()

	likesByComment := map[uuid.UUID][]uuid.UUID{}
	for likeRows.Next() {
		var commentID, userID uuid.UUID
		if err := likeRows.Scan(&commentID, &userID); err != nil {
			return fmt.Errorf("scan nested comment like: %w", err)
		}
		likesByComment[commentID] = append(likesByComment[commentID], userID)
	}
	if err := likeRows.Err(); err != nil {
		return err
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.content, c.post_id, c.user_id, c.number_of_likes,
		       c.created_at, c.updated_at,
		       u.id, u.first_name, u.last_name, u.photo_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		JOIN posts p ON p.id = c.post_id
		WHERE `+f.where+`
		ORDER BY c.created_at DESC
	`, f.args...)
	if err != nil {
		return fmt.Errorf("list nested comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cv models.CommentView
		if err := rows.Scan(
			&cv.ID, &cv.Content, &cv.PostID, &cv.UserID, &cv.NumberOfLikes,
			&cv.CreatedAt, &cv.UpdatedAt,
			&cv.Author.ID, &cv.Author.FirstName, &cv.Author.LastName, &cv.Author.PhotoURL,
		); err != nil {
			return fmt.Errorf("scan nested comment: %w", err)
		}
		cv.Likes = likesByComment[cv.ID]
		if cv.Likes == nil {
			cv.Likes = []uuid.UUID{}
		}
		if i, ok := index[cv.PostID]; ok {
			views[i].Comments = append(views[i].Comments, cv)
		}
	}
	return rows.Err()
}
