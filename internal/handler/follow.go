package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/connectly/internal/service"
)

// FollowHandler serves the /api/follows endpoints.
type FollowHandler struct {
	follows *service.FollowService
	logger  *slog.Logger
}

func NewFollowHandler(follows *service.FollowService, logger *slog.Logger) *FollowHandler {
	return &FollowHandler{follows: follows, logger: logger}
}

// followResponse carries the created edge's ID.
type followResponse struct {
	ID string `json:"id"`
}

// HandleList returns the requester's relationships as (id, username) pairs.
//
// HTTP: GET /api/follows?direction=followers|following (default: following)
func (h *FollowHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	related, err := h.follows.ListRelationship(r.Context(), user, r.URL.Query().Get("direction"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, related)
}

// HandleFollow creates a follow edge to the target user.
//
// HTTP: POST /api/follows/{userId}
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	id, err := h.follows.Follow(r.Context(), user, r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, followResponse{ID: id})
}

// HandleUnfollow removes the follow edge to the target user.
//
// HTTP: DELETE /api/follows/{userId}
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	if err := h.follows.Unfollow(r.Context(), user, r.PathValue("userId")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
