package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/connectly/internal/service"
)

// PostHandler serves the /api/posts endpoints.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type createPostRequest struct {
	Content string `json:"content"`
}

type createPostResponse struct {
	ID string `json:"id"`
}

// HandleFeed returns posts under the selected feed mode, newest first.
//
// HTTP: GET /api/posts?type=all|user|following&limit=&offset=
// An unrecognized type falls back to "all".
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	limit, offset := listParams(r)
	posts, err := h.posts.ListFeed(r.Context(), user, r.URL.Query().Get("type"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGetByID returns a single post by ID.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate creates a post authored by the requester.
//
// HTTP: POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	post, err := h.posts.Create(r.Context(), user, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createPostResponse{ID: post.ID})
}

// HandleDelete removes the requester's own post.
//
// HTTP: DELETE /api/posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
