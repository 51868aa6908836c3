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

// PostHandler serves posts and the comments under them.
type PostHandler struct {
	svc    *service.Service
	guard  *middleware.Guard
	paging Paging
}

// NewPostHandler constructs the handler.
func NewPostHandler(svc *service.Service, guard *middleware.Guard, paging Paging) *PostHandler {
	return &PostHandler{svc: svc, guard: guard, paging: paging}
}

// Register attaches post and comment routes to the mux.
func (h *PostHandler) Register(mux *http.ServeMux) {
	write := authz.AnyOf(models.PermWrite, models.PermModerate, models.PermAdmin)
	comment := authz.AnyOf(models.PermComment, models.PermModerate, models.PermAdmin)

	mux.HandleFunc("GET /api/posts", h.guard.Authenticated(h.handleList))
	mux.HandleFunc("POST /api/posts", h.guard.Require(write, h.handleCreate))
	mux.HandleFunc("GET /api/posts/{post_id}", h.guard.Authenticated(h.handleGet))
	mux.HandleFunc("PUT /api/posts/{post_id}", h.guard.Require(write, h.handleUpdate))
	mux.HandleFunc("DELETE /api/posts/{post_id}", h.guard.Require(write, h.handleDelete))

	mux.HandleFunc("GET /api/posts/{post_id}/comments", h.guard.Authenticated(h.handleListComments))
	mux.HandleFunc("POST /api/posts/{post_id}/comments", h.guard.Require(comment, h.handleCreateComment))
	mux.HandleFunc("GET /api/posts/{post_id}/comments/{comment_id}", h.guard.Authenticated(h.handleGetComment))
	mux.HandleFunc("PUT /api/posts/{post_id}/comments/{comment_id}", h.guard.Require(comment, h.handleUpdateComment))
	mux.HandleFunc("DELETE /api/posts/{post_id}/comments/{comment_id}", h.guard.Require(comment, h.handleDeleteComment))
}

func (h *PostHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListPosts(r.Context(), h.paging.parse(r))
	if err != nil {
		writeError(w, "list posts", err)
		return
	}
	respond.Page(w, page.Items, page.HasMore)
}

func (h *PostHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	author, _ := authz.UserFrom(r.Context())
	post, err := h.svc.CreatePost(r.Context(), author, req)
	if err != nil {
		writeError(w, "create post", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "", post)
}

func (h *PostHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.GetPost(r.Context(), r.PathValue("post_id"))
	if err != nil {
		writeError(w, "get post", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", post)
}

func (h *PostHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.svc.UpdatePost(r.Context(), r.PathValue("post_id"), req)
	if err != nil {
		writeError(w, "update post", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", post)
}

func (h *PostHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePost(r.Context(), r.PathValue("post_id")); err != nil {
		writeError(w, "delete post", err)
		return
	}
	respond.NoContent(w)
}

func (h *PostHandler) handleListComments(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListComments(r.Context(), r.PathValue("post_id"), h.paging.parse(r))
	if err != nil {
		writeError(w, "list comments", err)
		return
	}
	respond.Page(w, page.Items, page.HasMore)
}

func (h *PostHandler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	author, _ := authz.UserFrom(r.Context())
	c, err := h.svc.CreateComment(r.Context(), r.PathValue("post_id"), author, req)
	if err != nil {
		writeError(w, "create comment", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "", c)
}

func (h *PostHandler) handleGetComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetComment(r.Context(), r.PathValue("post_id"), r.PathValue("comment_id"))
	if err != nil {
		writeError(w, "get comment", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", c)
}

func (h *PostHandler) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateComment(r.Context(), r.PathValue("post_id"), r.PathValue("comment_id"), req)
	if err != nil {
		writeError(w, "update comment", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", c)
}

func (h *PostHandler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), r.PathValue("post_id"), r.PathValue("comment_id")); err != nil {
		writeError(w, "delete comment", err)
		return
	}
	respond.NoContent(w)
}
