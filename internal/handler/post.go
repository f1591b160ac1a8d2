package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/social-network/internal/auth"
	"github.com/sakif/social-network/internal/model"
	"github.com/sakif/social-network/internal/service"
)

// PostHandler exposes post creation, the feed, and single-post reads.
type PostHandler struct {
	posts    *service.PostService
	comments *service.CommentService
	logger   *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, comments *service.CommentService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, logger: logger}
}

// postResponse augments a post with its resolvable image URL.
type postResponse struct {
	model.Post
	ImageURL string `json:"imageUrl,omitempty"`
}

func postResponses(posts []model.Post, svc *service.PostService) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse{Post: p, ImageURL: svc.ImageURL(p.ImageName)})
	}
	return out
}

// HandleCreate publishes a new post.
//
// POST /api/posts — multipart form with fields "content", "visibility"
// (public|private, default public) and an optional "image" file.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "validation_error", Message: "invalid multipart form",
		})
		return
	}

	image, err := readUpload(r, "image")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(
		r.Context(),
		id.UserID,
		r.FormValue("content"),
		model.Visibility(r.FormValue("visibility")),
		image,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, postResponse{
		Post:     *post,
		ImageURL: h.posts.ImageURL(post.ImageName),
	})
}

// HandleFeed returns the visibility-filtered feed, newest first.
//
// GET /api/posts?limit=20&offset=0
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	limit, offset := pagination(r)

	posts, err := h.posts.Feed(r.Context(), id.UserID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postResponses(posts, h.posts))
}

// postDetailResponse is the single-post payload: the post plus its
// comments.
type postDetailResponse struct {
	Post     postResponse    `json:"post"`
	Comments []model.Comment `json:"comments"`
}

// HandleGet returns one post with its comments. A post the caller may not
// see answers 404, indistinguishable from a post that doesn't exist.
//
// GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	postID := chi.URLParam(r, "id")

	post, err := h.posts.Get(r.Context(), id.UserID, postID)
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.comments.ListForPost(r.Context(), id.UserID, postID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postDetailResponse{
		Post:     postResponse{Post: *post, ImageURL: h.posts.ImageURL(post.ImageName)},
		Comments: comments,
	})
}

// HandleCreateComment adds a comment to a post the caller can see.
//
// POST /api/posts/{id}/comments {"content": "..."}
func (h *PostHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	postID := chi.URLParam(r, "id")

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(w, r, &req, h.logger); err != nil {
		return
	}

	comment, err := h.comments.Create(r.Context(), id.UserID, postID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// pagination reads limit/offset query params, leaving the clamping to the
// service and repository layers.
func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
