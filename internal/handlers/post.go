package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// Posts groups the blog post HTTP handlers.
type Posts struct {
	posts   *store.PostStore
	storage *storage.Client
	feed    *cache.FeedCache
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, sc *storage.Client, feed *cache.FeedCache) *Posts {
	return &Posts{posts: posts, storage: sc, feed: feed}
}

type createPostRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Create makes a new unpublished post owned by the caller.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Blog title and category is required.")
		return
	}
	if msg := validatePostInput(req.Title, req.Category); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.posts.Create(subject, req.Title, req.Category)
	if err != nil {
		slog.Error("post create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create blog")
		return
	}
	h.feed.Invalidate(r.Context())

	respond(w, http.StatusCreated, true, map[string]any{
		"blog":    post,
		"message": "Blog Created Successfully.",
	})
}

// Update edits a post's content fields from a multipart form, optionally
// replacing the thumbnail. Only the owner may edit; an omitted thumbnail
// keeps the prior one.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
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

	post, err := h.posts.FindByID(postID)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error updating blog")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if !isOwner(subject, post.AuthorID) {
		respondError(w, http.StatusForbidden, "Unauthorized to edit")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	patch := store.PostPatch{
		Title:       formField(r, "title"),
		Subtitle:    formField(r, "subtitle"),
		Description: formField(r, "description"),
		Category:    formField(r, "category"),
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		url, err := uploadImage(r.Context(), h.storage, "thumbnails", file, header.Size)
		if err != nil {
			slog.Error("thumbnail upload failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Error updating blog")
			return
		}
		patch.Thumbnail = &url
	}

	updated, err := h.posts.Update(postID, patch)
	if err != nil {
		slog.Error("post update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error updating blog")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}
	h.feed.Invalidate(r.Context())

	if patch.Thumbnail != nil && post.Thumbnail != nil && *post.Thumbnail != *patch.Thumbnail {
		deleteStoredFile(r.Context(), h.storage, *post.Thumbnail)
	}

	respond(w, http.StatusOK, true, map[string]any{
		"message": "Blog updated successfully",
		"blog":    updated,
	})
}

// Delete removes a post and every comment on it. Only the owner may delete.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
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

	post, err := h.posts.FindByID(postID)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error deleting blog")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if !isOwner(subject, post.AuthorID) {
		respondError(w, http.StatusForbidden, "Unauthorized to delete")
		return
	}

	if err := h.posts.Delete(postID); err != nil {
		slog.Error("post delete failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error deleting blog")
		return
	}
	h.feed.Invalidate(r.Context())

	if post.Thumbnail != nil {
		deleteStoredFile(r.Context(), h.storage, *post.Thumbnail)
	}

	respondMessage(w, http.StatusOK, "Blog deleted successfully")
}

// ListAll returns every post, newest first, with authors and comments
// expanded. Responses are served from the feed cache when warm.
func (h *Posts) ListAll(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, cache.FeedAll, h.posts.ListAll)
}

// ListPublished returns published posts only, same projection as ListAll.
func (h *Posts) ListPublished(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, cache.FeedPublished, h.posts.ListPublished)
}

// serveFeed answers a public listing from the cache, falling back to the
// store and caching the rendered body.
func (h *Posts) serveFeed(w http.ResponseWriter, r *http.Request, key string, list func() ([]models.PostView, error)) {
	if body, ok := h.feed.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	views, err := list()
	if err != nil {
		slog.Error("post list failed", "error", err, "feed", key)
		respondError(w, http.StatusInternalServerError, "Error fetching blogs")
		return
	}

	body, err := json.Marshal(map[string]any{"success": true, "blogs": views})
	if err != nil {
		slog.Error("post list encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error fetching blogs")
		return
	}
	h.feed.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ListOwn returns the caller's posts, newest first.
func (h *Posts) ListOwn(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	views, err := h.posts.ListByAuthor(subject)
	if err != nil {
		slog.Error("own post list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error fetching blogs")
		return
	}

	respond(w, http.StatusOK, true, map[string]any{"blogs": views})
}

// Like adds the caller to a post's like set. Liking twice is a no-op.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	h.mutateLikes(w, r, h.posts.Like, "Blog liked", "Failed to like blog")
}

// Dislike removes the caller from a post's like set. Removing an absent
// like is a no-op.
func (h *Posts) Dislike(w http.ResponseWriter, r *http.Request) {
	h.mutateLikes(w, r, h.posts.Unlike, "Blog disliked", "Failed to dislike blog")
}

func (h *Posts) mutateLikes(w http.ResponseWriter, r *http.Request, op func(postID, userID uuid.UUID) error, okMsg, failMsg string) {
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

	post, err := h.posts.FindByID(postID)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, failMsg)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	if err := op(postID, subject); err != nil {
		slog.Error("post like mutation failed", "error", err)
		respondError(w, http.StatusInternalServerError, failMsg)
		return
	}
	h.feed.Invalidate(r.Context())

	respondMessage(w, http.StatusOK, okMsg)
}

// TogglePublish flips a post's published flag. Any authenticated caller
// may toggle any post; ownership is not checked here.
func (h *Posts) TogglePublish(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Blog not found!")
		return
	}

	post, err := h.posts.FindByID(postID)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Blog not found!")
		return
	}

	published, err := h.posts.TogglePublish(postID)
	if err != nil {
		slog.Error("publish toggle failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	h.feed.Invalidate(r.Context())

	status := "Unpublished"
	if published {
		status = "Published"
	}
	respondMessage(w, http.StatusOK, "Blog is "+status)
}

// LikeTotals returns the caller's post count and the summed likes across
// those posts.
func (h *Posts) LikeTotals(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	totals, err := h.posts.LikeTotals(subject)
	if err != nil {
		slog.Error("like totals failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch total blog likes")
		return
	}

	respond(w, http.StatusOK, true, map[string]any{
		"totalBlogs": totals.TotalBlogs,
		"totalLikes": totals.TotalLikes,
	})
}
