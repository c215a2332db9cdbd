package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/store"
)

// Comments groups the comment HTTP handlers.
type Comments struct {
	comments *store.CommentStore
	posts    *store.PostStore
	feed     *cache.FeedCache
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, posts *store.PostStore, feed *cache.FeedCache) *Comments {
	return &Comments{comments: comments, posts: posts, feed: feed}
}

type commentRequest struct {
	Content string `json:"content"`
}

// Create attaches a new comment to a post.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if msg := validateCommentContent(req.Content); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.posts.FindByID(postID)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	comment, err := h.comments.Create(postID, subject, req.Content)
	if err != nil {
		slog.Error("comment create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	h.feed.Invalidate(r.Context())

	respond(w, http.StatusCreated, true, map[string]any{
		"message": "Comment created",
		"comment": comment,
	})
}

// ListForPost returns a post's comments, newest first, authors expanded.
// An unknown post yields an empty list rather than an error.
func (h *Comments) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	views, err := h.comments.ListForPost(postID)
	if err != nil {
		slog.Error("comment list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	respond(w, http.StatusOK, true, map[string]any{"comments": views})
}

// Edit replaces a comment's text. Only the author may edit.
func (h *Comments) Edit(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Comment not found")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if msg := validateCommentContent(req.Content); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	comment, err := h.comments.FindByID(commentID)
	if err != nil {
		slog.Error("comment lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to edit comment")
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if !isOwner(subject, comment.UserID) {
		respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.comments.UpdateContent(commentID, req.Content); err != nil {
		slog.Error("comment edit failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to edit comment")
		return
	}
	h.feed.Invalidate(r.Context())

	respondMessage(w, http.StatusOK, "Comment updated")
}

// Delete removes a comment. Only the author may delete.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Comment not found")
		return
	}

	comment, err := h.comments.FindByID(commentID)
	if err != nil {
		slog.Error("comment lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if !isOwner(subject, comment.UserID) {
		respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.comments.Delete(commentID); err != nil {
		slog.Error("comment delete failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	h.feed.Invalidate(r.Context())

	respondMessage(w, http.StatusOK, "Comment deleted")
}

// ToggleLike likes the comment, or unlikes it if the caller already had.
// One bidirectional toggle, unlike post likes which are two operations.
func (h *Comments) ToggleLike(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Comment not found")
		return
	}

	comment, err := h.comments.FindByID(commentID)
	if err != nil {
		slog.Error("comment lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to like/unlike comment")
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "Comment not found")
		return
	}

	liked, err := h.comments.ToggleLike(commentID, subject)
	if err != nil {
		slog.Error("comment like toggle failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to like/unlike comment")
		return
	}
	h.feed.Invalidate(r.Context())

	updated, err := h.comments.ViewByID(commentID)
	if err != nil {
		slog.Error("comment reload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to like/unlike comment")
		return
	}

	msg := "Unliked"
	if liked {
		msg = "Liked"
	}
	respond(w, http.StatusOK, true, map[string]any{
		"message":        msg,
		"updatedComment": updated,
	})
}

// ListAcrossMyPosts returns every comment left on the caller's posts.
func (h *Comments) ListAcrossMyPosts(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	views, err := h.comments.ListForAuthorPosts(subject)
	if err != nil {
		slog.Error("author comment list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch blog comments")
		return
	}

	respond(w, http.StatusOK, true, map[string]any{"comments": views})
}
