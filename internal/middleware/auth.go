// Package middleware provides HTTP middleware for the Inkwell API server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SubjectKey is the context key for the authenticated account ID.
	SubjectKey contextKey = "subject"
)

// RequireAuth gates protected routes behind bearer-token authentication.
// It extracts the credential from the Authorization header, verifies it
// with the token codec, and stores the decoded account ID in the request
// context. Requests with a missing, malformed, or invalid token get 401.
// Ownership checks are not done here; handlers evaluate those per-operation.
func RequireAuth(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeUnauthenticated(w, "Authorization header missing or malformed")
				return
			}

			subject, err := codec.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeUnauthenticated(w, "Authentication failed")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromCtx extracts the authenticated account ID from the request
// context. Returns uuid.Nil and false if no subject is set (route was not
// behind RequireAuth).
func SubjectFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(SubjectKey).(uuid.UUID)
	return id, ok
}

// writeUnauthenticated sends the API's standard 401 error envelope.
func writeUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
