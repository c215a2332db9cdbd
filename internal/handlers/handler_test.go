// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests. The feed
// cache and storage client are nil: a nil cache disables caching and a nil
// storage client rejects uploads, both without branching in handlers.
type testEnv struct {
	DB       *sql.DB
	Codec    *token.Codec
	Users    *Users
	Posts    *Posts
	Comments *Comments

	userStore    *store.UserStore
	postStore    *store.PostStore
	commentStore *store.CommentStore
}

// newTestEnv creates a complete test environment with all handler
// dependencies wired against the test database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	codec := token.NewCodec("handler-test-secret")
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	comments := store.NewCommentStore(db)

	return &testEnv{
		DB:           db,
		Codec:        codec,
		Users:        NewUsers(users, codec, nil),
		Posts:        NewPosts(posts, nil, nil),
		Comments:     NewComments(comments, posts, nil),
		userStore:    users,
		postStore:    posts,
		commentStore: comments,
	}
}

// newUser creates a throwaway account and registers its cleanup.
func (e *testEnv) newUser(t *testing.T, email string) *models.User {
	t.Helper()
	e.DB.Exec("DELETE FROM users WHERE email = $1", email)
	user, err := e.userStore.Create("Handler", "Test", email, "testpass123")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return user
}

// newPost creates a throwaway post and registers its cleanup.
func (e *testEnv) newPost(t *testing.T, authorID uuid.UUID, title string) *models.Post {
	t.Helper()
	post, err := e.postStore.Create(authorID, title, "testing")
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM comments WHERE post_id = $1", post.ID)
		e.DB.Exec("DELETE FROM posts WHERE id = $1", post.ID)
	})
	return post
}

// ctxWithSubject injects an authenticated account ID like RequireAuth does.
func ctxWithSubject(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, middleware.SubjectKey, id)
}

// authedRequest builds a request carrying a subject and optional chi URL
// params given as key/value pairs.
func authedRequest(method, target string, body io.Reader, subject uuid.UUID, params ...string) *http.Request {
	r := httptest.NewRequest(method, target, body)
	ctx := ctxWithSubject(r.Context(), subject)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

// withURLParam adds a chi URL parameter to an unauthenticated request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody parses a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// jsonBody builds a request body from a JSON literal.
func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

// multipartForm builds a multipart body from field values and returns the
// body plus its content type.
func multipartForm(t *testing.T, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write form field %q: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
