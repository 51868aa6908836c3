package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/authz"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/middleware"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/service"
	"github.com/hongminglow/blog-be/internal/storage"
)

// AuthHandler owns login, token refresh and logout.
type AuthHandler struct {
	svc     *service.Service
	tokens  *auth.TokenManager
	revoked auth.RevocationStore
	guard   *middleware.Guard
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *service.Service, tokens *auth.TokenManager, revoked auth.RevocationStore, guard *middleware.Guard) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, revoked: revoked, guard: guard}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("POST /api/token/refresh", h.guard.Refresh(h.handleRefresh))
	mux.HandleFunc("POST /api/logout", h.guard.Authenticated(h.handleLogout))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respond.JSON(w, http.StatusOK, service.ErrInvalidCredentials.Error(), nil)
			return
		}
		writeError(w, "login", err)
		return
	}
	access, err := h.tokens.Generate(user, auth.AccessToken)
	if err != nil {
		writeError(w, "issue access token", err)
		return
	}
	refresh, err := h.tokens.Generate(user, auth.RefreshToken)
	if err != nil {
		writeError(w, "issue refresh token", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", dto.LoginResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	if _, err := h.svc.GetUser(r.Context(), claims.Subject); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, authz.DeniedMessage)
			return
		}
		writeError(w, "refresh", err)
		return
	}
	access, err := h.tokens.Refresh(claims)
	if err != nil {
		writeError(w, "refresh", err)
		return
	}
	respond.JSON(w, http.StatusOK, "", dto.RefreshResponse{AccessToken: access})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := h.revoked.Revoke(r.Context(), claims.ID, until); err != nil {
		log.Printf("logout %s: %v", claims.Subject, err)
		respond.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respond.JSON(w, http.StatusOK, "Successfully logged out.", nil)
}
