package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/storage"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// Users groups the account HTTP handlers.
type Users struct {
	users   *store.UserStore
	codec   *token.Codec
	storage *storage.Client
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, codec *token.Codec, sc *storage.Client) *Users {
	return &Users{users: users, codec: codec, storage: sc}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates a new account. The caller must separately log in; no
// credential is issued here.
func (h *Users) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if msg := validateRegistration(req.FirstName, req.LastName, req.Email, req.Password); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("register lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to register")
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "Email already exists")
		return
	}

	if _, err := h.users.Create(req.FirstName, req.LastName, req.Email, req.Password); err != nil {
		slog.Error("register create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	respondMessage(w, http.StatusCreated, "Account created successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a bearer token.
func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to login")
		return
	}
	if user == nil {
		respondError(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}
	if !h.users.CheckPassword(user, req.Password) {
		respondError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	tok, err := h.codec.Issue(user.ID)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	respond(w, http.StatusOK, true, map[string]any{
		"message": "Welcome back " + user.FirstName,
		"user":    user,
		"token":   tok,
	})
}

// Logout is a stateless no-op: tokens are bearer credentials the client
// simply discards.
func (h *Users) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// UpdateProfile applies a partial profile update from a multipart form,
// optionally replacing the avatar with an uploaded image.
func (h *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	patch := store.ProfilePatch{
		FirstName:  formField(r, "firstName"),
		LastName:   formField(r, "lastName"),
		Occupation: formField(r, "occupation"),
		Bio:        formField(r, "bio"),
		Instagram:  formField(r, "instagram"),
		Facebook:   formField(r, "facebook"),
		LinkedIn:   formField(r, "linkedin"),
		GitHub:     formField(r, "github"),
	}

	var oldPhoto string
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		url, err := uploadImage(r.Context(), h.storage, "avatars", file, header.Size)
		if err != nil {
			slog.Error("avatar upload failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		patch.PhotoURL = &url
		if current, err := h.users.FindByID(subject); err == nil && current != nil && current.PhotoURL != nil {
			oldPhoto = *current.PhotoURL
		}
	}

	user, err := h.users.UpdateProfile(subject, patch)
	if err != nil {
		slog.Error("profile update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if patch.PhotoURL != nil && oldPhoto != "" && oldPhoto != *patch.PhotoURL {
		deleteStoredFile(r.Context(), h.storage, oldPhoto)
	}

	respond(w, http.StatusOK, true, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ListAll returns every account. Password hashes never serialize.
func (h *Users) ListAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		slog.Error("user list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	respond(w, http.StatusOK, true, map[string]any{
		"message": "User list fetched successfully",
		"total":   len(users),
		"users":   users,
	})
}

// formField returns a pointer to a form value, or nil when the field was
// not supplied. Empty strings are treated as absent, matching partial
// update semantics.
func formField(r *http.Request, name string) *string {
	v := r.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}
