package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/social-network/internal/auth"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/service"
)

// UserHandler exposes the profile, photo upload, user directory, and
// per-user post listing endpoints.
type UserHandler struct {
	users       *service.UserService
	posts       *service.PostService
	connections *service.ConnectionService
	logger      *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(
	users *service.UserService,
	posts *service.PostService,
	connections *service.ConnectionService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		users:       users,
		posts:       posts,
		connections: connections,
		logger:      logger,
	}
}

// profileResponse augments the user record with a resolvable photo URL.
type profileResponse struct {
	*model.User
	PhotoURL string `json:"photoUrl,omitempty"`
}

// HandleProfile returns the authenticated user's own profile.
//
// GET /api/profile
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	user, err := h.users.Profile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:     user,
		PhotoURL: h.users.PhotoURL(user.ProfilePhoto),
	})
}

// HandleUploadPhoto replaces the authenticated user's profile photo.
//
// POST /api/profile/photo, multipart field "photo"
func (h *UserHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	upload, err := readUpload(r, "photo")
	if err != nil {
		writeError(w, err)
		return
	}
	if upload == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "no photo file provided",
		})
		return
	}

	name, err := h.users.UpdateProfilePhoto(r.Context(), id.UserID, upload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"profilePhoto": name,
		"photoUrl":     h.users.PhotoURL(name),
	})
}

// HandleDirectory lists every other user with the caller's connection
// status to each.
//
// GET /api/users
func (h *UserHandler) HandleDirectory(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	users, err := h.users.Directory(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// userPostsResponse is the profile-page payload: the user, the viewer's
// relationship to them, and the posts the viewer may read.
type userPostsResponse struct {
	User             publicProfile          `json:"user"`
	ConnectionStatus model.ConnectionStatus `json:"connectionStatus"`
	Posts            []postResponse         `json:"posts"`
}

// publicProfile is what one user sees of another: no email, no hash.
type publicProfile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
	PhotoURL     string `json:"photoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HandleUserPosts returns a user's profile and their posts visible to the
// caller.
//
// GET /api/users/{username}/posts
func (h *UserHandler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	username := chi.URLParam(r, "username")

	user, posts, err := h.posts.ProfilePosts(r.Context(), id.UserID, username)
	if err != nil {
		writeError(w, err)
		return
	}

	status := model.StatusNotConnected
	if user.ID != id.UserID {
		status, err = h.connections.StatusWith(r.Context(), id.UserID, user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, userPostsResponse{
		User: publicProfile{
			ID:           user.ID,
			Username:     user.Username,
			ProfilePhoto: user.ProfilePhoto,
			PhotoURL:     h.users.PhotoURL(user.ProfilePhoto),
			CreatedAt:    user.CreatedAt,
		},
		ConnectionStatus: status,
		Posts:            postResponses(posts, h.posts),
	})
}
