package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	u := env.newUser(t, "post-create@handler-test.local")

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/blog",
		jsonBody(`{"title":"T","category":"C"}`), u.ID)
	env.Posts.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Blog Created Successfully." {
		t.Errorf("message: got %q", body["message"])
	}
	blog := body["blog"].(map[string]any)
	if blog["isPublished"] != false {
		t.Error("new post must start unpublished")
	}
	if blog["authorId"] != u.ID.String() {
		t.Errorf("author: got %v", blog["authorId"])
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM posts WHERE id = $1", blog["id"]) })

	// Missing fields.
	rec = httptest.NewRecorder()
	req = authedRequest(http.MethodPost, "/blog", jsonBody(`{"title":"T"}`), u.ID)
	env.Posts.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing category: got %d, want 400", rec.Code)
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "post-edit-owner@handler-test.local")
	stranger := env.newUser(t, "post-edit-other@handler-test.local")
	post := env.newPost(t, owner.ID, "Original")

	form, contentType := multipartForm(t, map[string]string{"title": "Hijacked"})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/blog/edit/"+post.ID.String(), form,
		stranger.ID, "id", post.ID.String())
	req.Header.Set("Content-Type", contentType)
	env.Posts.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner edit: got %d, want 403", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Unauthorized to edit" {
		t.Error("expected ownership rejection message")
	}

	// Owner succeeds; untouched fields survive.
	form, contentType = multipartForm(t, map[string]string{"subtitle": "Part two"})
	rec = httptest.NewRecorder()
	req = authedRequest(http.MethodPut, "/blog/edit/"+post.ID.String(), form,
		owner.ID, "id", post.ID.String())
	req.Header.Set("Content-Type", contentType)
	env.Posts.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("owner edit: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	blog := body["blog"].(map[string]any)
	if blog["subtitle"] != "Part two" {
		t.Errorf("subtitle: got %v", blog["subtitle"])
	}
	if blog["title"] != "Original" {
		t.Errorf("title changed unexpectedly: %v", blog["title"])
	}
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "post-del-owner@handler-test.local")
	stranger := env.newUser(t, "post-del-other@handler-test.local")
	post := env.newPost(t, owner.ID, "Doomed")

	// Non-owner rejected.
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/blog/delete/"+post.ID.String(), nil,
		stranger.ID, "id", post.ID.String())
	env.Posts.Delete(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: got %d, want 403", rec.Code)
	}

	// Owner succeeds.
	rec = httptest.NewRecorder()
	req = authedRequest(http.MethodDelete, "/blog/delete/"+post.ID.String(), nil,
		owner.ID, "id", post.ID.String())
	env.Posts.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: got %d, want 200", rec.Code)
	}

	// Deleting again is a 404.
	rec = httptest.NewRecorder()
	req = authedRequest(http.MethodDelete, "/blog/delete/"+post.ID.String(), nil,
		owner.ID, "id", post.ID.String())
	env.Posts.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete: got %d, want 404", rec.Code)
	}
}

func TestLikeDislikePost(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "post-like-owner@handler-test.local")
	reader := env.newUser(t, "post-like-reader@handler-test.local")
	post := env.newPost(t, owner.ID, "Likeable")

	like := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/blog/action/"+post.ID.String()+"/like", nil,
			reader.ID, "id", post.ID.String())
		env.Posts.Like(rec, req)
		return rec
	}
	dislike := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/blog/action/"+post.ID.String()+"/dislike", nil,
			reader.ID, "id", post.ID.String())
		env.Posts.Dislike(rec, req)
		return rec
	}
	likeCount := func() int {
		found, err := env.postStore.FindByID(post.ID)
		if err != nil || found == nil {
			t.Fatalf("reload post: %v", err)
		}
		return len(found.Likes)
	}

	// Like twice: still one membership.
	if rec := like(); rec.Code != http.StatusOK {
		t.Fatalf("like: got %d", rec.Code)
	}
	if rec := like(); rec.Code != http.StatusOK {
		t.Fatalf("second like: got %d", rec.Code)
	}
	if n := likeCount(); n != 1 {
		t.Errorf("likes after double like: got %d, want 1", n)
	}

	// Dislike twice: empty either way.
	if rec := dislike(); rec.Code != http.StatusOK {
		t.Fatalf("dislike: got %d", rec.Code)
	}
	if rec := dislike(); rec.Code != http.StatusOK {
		t.Fatalf("second dislike: got %d", rec.Code)
	}
	if n := likeCount(); n != 0 {
		t.Errorf("likes after double dislike: got %d, want 0", n)
	}
}

func TestTogglePublish(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "post-pub-owner@handler-test.local")
	other := env.newUser(t, "post-pub-other@handler-test.local")
	post := env.newPost(t, owner.ID, "Flip Me")

	// Any authenticated account may toggle, not just the owner.
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/blog/action/"+post.ID.String()+"/publish", nil,
		other.ID, "id", post.ID.String())
	env.Posts.TogglePublish(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Blog is Published" {
		t.Error("expected published message after first toggle")
	}

	rec = httptest.NewRecorder()
	req = authedRequest(http.MethodPatch, "/blog/action/"+post.ID.String()+"/publish", nil,
		other.ID, "id", post.ID.String())
	env.Posts.TogglePublish(rec, req)
	if decodeBody(t, rec)["message"] != "Blog is Unpublished" {
		t.Error("expected unpublished message after second toggle")
	}
}

func TestListPublishedExcludesDrafts(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "post-feed@handler-test.local")
	draft := env.newPost(t, owner.ID, "Hidden Draft")
	visible := env.newPost(t, owner.ID, "Public Piece")
	if _, err := env.postStore.TogglePublish(visible.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/blog/get-published-blogs", nil)
	env.Posts.ListPublished(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	blogs := body["blogs"].([]any)
	seen := map[string]bool{}
	for _, raw := range blogs {
		b := raw.(map[string]any)
		seen[b["id"].(string)] = true
	}
	if seen[draft.ID.String()] {
		t.Error("draft leaked into published feed")
	}
	if !seen[visible.ID.String()] {
		t.Error("published post missing from feed")
	}
}

func TestLikeTotals(t *testing.T) {
	env := newTestEnv(t)
	owner := env.newUser(t, "post-totals-owner@handler-test.local")
	r1 := env.newUser(t, "post-totals-r1@handler-test.local")
	r2 := env.newUser(t, "post-totals-r2@handler-test.local")
	post := env.newPost(t, owner.ID, "Popular")
	env.newPost(t, owner.ID, "Ignored")

	if err := env.postStore.Like(post.ID, r1.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := env.postStore.Like(post.ID, r2.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/blog/my-blogs/likes", nil, owner.ID)
	env.Posts.LikeTotals(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["totalBlogs"] != float64(2) {
		t.Errorf("totalBlogs: got %v, want 2", body["totalBlogs"])
	}
	if body["totalLikes"] != float64(2) {
		t.Errorf("totalLikes: got %v, want 2", body["totalLikes"])
	}
}
