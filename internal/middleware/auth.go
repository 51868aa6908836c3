package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/authz"
	"github.com/hongminglow/blog-be/internal/http/respond"
)

const (
	msgMissingHeader = "Missing Authorization Header"
	msgBadHeader     = "Bad Authorization header. Expected value 'Bearer <JWT>'"
	msgExpired       = "The access token has expired"
	msgRevoked       = "Token has been revoked"
	msgWrongType     = "Only access tokens are allowed"
	msgRefreshOnly   = "Only refresh tokens are allowed"
)

// Guard verifies bearer tokens and runs permission checks in front of handlers.
type Guard struct {
	tokens  *auth.TokenManager
	revoked auth.RevocationStore
	gate    *authz.Gate
}

// NewGuard creates a guard backed by tokens, the revocation list and gate.
func NewGuard(tokens *auth.TokenManager, revoked auth.RevocationStore, gate *authz.Gate) *Guard {
	return &Guard{tokens: tokens, revoked: revoked, gate: gate}
}

// Authenticated requires a valid, unrevoked access token.
func (g *Guard) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return g.token(auth.AccessToken, next)
}

// Refresh requires a valid, unrevoked refresh token.
func (g *Guard) Refresh(next http.HandlerFunc) http.HandlerFunc {
	return g.token(auth.RefreshToken, next)
}

// Require authenticates the request and then checks req against the caller's
// roles. The resolved user is available to next through authz.UserFrom.
func (g *Guard) Require(req authz.Requirement, next http.HandlerFunc) http.HandlerFunc {
	return g.Authenticated(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := auth.ClaimsFrom(r.Context())
		user, err := g.gate.Authorize(r.Context(), claims.Subject, req)
		if err != nil {
			if errors.Is(err, authz.ErrForbidden) {
				respond.Error(w, http.StatusUnauthorized, authz.DeniedMessage)
				return
			}
			log.Printf("authorize %s: %v", claims.Subject, err)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}
		next(w, r.WithContext(authz.WithUser(r.Context(), user)))
	})
}

func (g *Guard) token(want auth.TokenType, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, msgMissingHeader)
			return
		}
		raw, ok := bearer(header)
		if !ok {
			respond.Error(w, http.StatusUnprocessableEntity, msgBadHeader)
			return
		}

		claims, err := g.tokens.Parse(raw, want)
		if err == nil {
			err = g.checkRevoked(r, claims.ID)
		}
		if err != nil {
			status, msg := tokenFailure(want, err)
			if status == http.StatusInternalServerError {
				log.Printf("revocation lookup: %v", err)
			}
			respond.Error(w, status, msg)
			return
		}

		next(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	}
}

func (g *Guard) checkRevoked(r *http.Request, id string) error {
	revoked, err := g.revoked.IsRevoked(r.Context(), id)
	switch {
	case err != nil:
		return err
	case revoked:
		return auth.ErrTokenRevoked
	}
	return nil
}

// tokenFailure maps a token error to the status and message sent to the client.
func tokenFailure(want auth.TokenType, err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, msgExpired
	case errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized, msgRevoked
	case errors.Is(err, auth.ErrWrongTokenType):
		if want == auth.RefreshToken {
			return http.StatusUnprocessableEntity, msgRefreshOnly
		}
		return http.StatusUnprocessableEntity, msgWrongType
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnprocessableEntity, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
