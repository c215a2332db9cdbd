// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Routes are organized into public endpoints and bearer-token
// protected groups.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/token"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(codec *token.Codec, corsOrigins []string, users *handlers.Users, posts *handlers.Posts, comments *handlers.Comments) chi.Router {
	r := chi.NewRouter()

	// Global middleware applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(corsOrigins))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	requireAuth := middleware.RequireAuth(codec)

	// Credential endpoints carry a per-IP rate limit against stuffing.
	credentialLimit := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(credentialLimit.Middleware)
			r.Post("/register", users.Register)
			r.Post("/login", users.Login)
		})
		r.Get("/logout", users.Logout)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/profile/update", users.UpdateProfile)
			r.Get("/all", users.ListAll)
		})
	})

	r.Route("/blog", func(r chi.Router) {
		// Public listings.
		r.Get("/get-all-blogs", posts.ListAll)
		r.Get("/get-published-blogs", posts.ListPublished)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", posts.Create)
			r.Put("/edit/{id}", posts.Update)
			r.Delete("/delete/{id}", posts.Delete)
			r.Get("/get-own-blogs", posts.ListOwn)
			r.Get("/my-blogs/likes", posts.LikeTotals)
			r.Get("/action/{id}/like", posts.Like)
			r.Get("/action/{id}/dislike", posts.Dislike)
			r.Patch("/action/{id}/publish", posts.TogglePublish)
		})
	})

	r.Route("/comment", func(r chi.Router) {
		// Comment and post IDs share the {id} slot: chi requires one
		// wildcard name per position, and the handlers resolve which
		// entity the ID names.
		r.Get("/{id}", comments.ListForPost)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/my-blogs/comments", comments.ListAcrossMyPosts)
			r.Post("/{id}", comments.Create)
			r.Put("/{id}", comments.Edit)
			r.Delete("/{id}", comments.Delete)
			r.Patch("/like/{id}", comments.ToggleLike)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
