package handlers

import (
	"net/http"

	"github.com/hongminglow/blog-be/internal/authz"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/middleware"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/service"
)

// UserHandler serves registration and the administrator's user management.
type UserHandler struct {
	svc    *service.Service
	guard  *middleware.Guard
	paging Paging
}

// NewUserHandler constructs the handler.
func NewUserHandler(svc *service.Service, guard *middleware.Guard, paging Paging) *UserHandler {
	return &UserHandler{svc: svc, guard: guard, paging: paging}
}

// Register attaches user routes to the mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	admin := authz.Equals(models.PermAdmin)
	mux.HandleFunc("POST /api/users", h.handleCreate)
	mux.HandleFunc("GET /api/users", h.guard.Require(admin, h.handleList))
	mux.HandleFunc("GET /api/users/{user_id}", h.guard.Require(admin, h.handleGet))
	mux.HandleFunc("PUT /api/users/{user_id}", h.guard.Require(admin, h.handleUpdate))
	mux.HandleFunc("DELETE /api/users/{user_id}", h.guard.Require(admin, h.handleDelete))
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.RegisterUser(r.Context(), req)
	if err != nil {
		writeError(w, "create user", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "", user)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListUsers(r.Context(), h.paging.parse(r))
	if err != nil {
		writeError(w, "list users", err)
		return
	}
	respond.Page(w, page.Items, page.HasMore)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeError(w, "get user", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", user)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.UpdateUser(r.Context(), r.PathValue("user_id"), req)
	if err != nil {
		writeError(w, "update user", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", user)
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), r.PathValue("user_id")); err != nil {
		writeError(w, "delete user", err)
		return
	}
	respond.NoContent(w)
}
