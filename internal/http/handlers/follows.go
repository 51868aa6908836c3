package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/authz"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/middleware"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/service"
)

// FollowHandler exposes the follower graph.
type FollowHandler struct {
	svc    *service.Service
	guard  *middleware.Guard
	paging Paging
}

// NewFollowHandler constructs the handler.
func NewFollowHandler(svc *service.Service, guard *middleware.Guard, paging Paging) *FollowHandler {
	return &FollowHandler{svc: svc, guard: guard, paging: paging}
}

// Register attaches follower routes to the mux.
func (h *FollowHandler) Register(mux *http.ServeMux) {
	follow := authz.AnyOf(models.PermFollow, models.PermAdmin)
	mux.HandleFunc("GET /api/users/{user_id}/followers", h.guard.Authenticated(h.handleListFollowers))
	mux.HandleFunc("GET /api/users/{user_id}/followers/{follow_id}", h.guard.Authenticated(h.handleGetFollower))
	mux.HandleFunc("GET /api/users/{user_id}/followings", h.guard.Authenticated(h.handleListFollowings))
	mux.HandleFunc("GET /api/users/{user_id}/followings/{follow_id}", h.guard.Authenticated(h.handleGetFollowing))
	mux.HandleFunc("POST /api/users/{user_id}/follow/{target_id}", h.guard.Require(follow, h.handleFollow))
	mux.HandleFunc("POST /api/users/{user_id}/unfollow/{target_id}", h.guard.Require(follow, h.handleUnfollow))
}

func (h *FollowHandler) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListFollowers(r.Context(), r.PathValue("user_id"), h.paging.parse(r))
	if err != nil {
		writeError(w, "list followers", err)
		return
	}
	respond.Page(w, page.Items, page.HasMore)
}

func (h *FollowHandler) handleListFollowings(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListFollowings(r.Context(), r.PathValue("user_id"), h.paging.parse(r))
	if err != nil {
		writeError(w, "list followings", err)
		return
	}
	respond.Page(w, page.Items, page.HasMore)
}

func (h *FollowHandler) handleGetFollower(w http.ResponseWriter, r *http.Request) {
	edge, err := h.svc.GetFollower(r.Context(), r.PathValue("user_id"), r.PathValue("follow_id"))
	if err != nil {
		writeError(w, "get follower", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", edge)
}

func (h *FollowHandler) handleGetFollowing(w http.ResponseWriter, r *http.Request) {
	edge, err := h.svc.GetFollowing(r.Context(), r.PathValue("user_id"), r.PathValue("follow_id"))
	if err != nil {
		writeError(w, "get following", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", edge)
}

func (h *FollowHandler) handleFollow(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "follow", h.svc.Follow)
}

func (h *FollowHandler) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "unfollow", h.svc.Unfollow)
}

type followChange func(ctx context.Context, follower, followed string) (service.FollowResult, error)

// change runs a follow or unfollow on behalf of user_id. Only that user or an
// administrator may act for them.
func (h *FollowHandler) change(w http.ResponseWriter, r *http.Request, action string, run followChange) {
	caller, _ := authz.UserFrom(r.Context())
	actor := r.PathValue("user_id")
	if !caller.IsAdministrator() {
		id, err := uuid.Parse(actor)
		if err != nil || id != caller.ID {
			respond.Error(w, http.StatusUnauthorized, authz.DeniedMessage)
			return
		}
	}
	res, err := run(r.Context(), actor, r.PathValue("target_id"))
	if err != nil {
		writeError(w, action, err)
		return
	}
	respond.JSON(w, http.StatusOK, res.Message, nil)
}
