package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
)

// TokenType separates short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenRevoked   = errors.New("token has been revoked")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the payload carried by every token we issue.
type Claims struct {
	jwt.RegisteredClaims
	Type     TokenType `json:"type"`
	Username string    `json:"username,omitempty"`
}

// UserID parses the subject back into a user id.
func (c Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenManager issues and validates signed JWTs for authenticated users.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetimes.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Generate issues a signed token of the given type for user.
func (t *TokenManager) Generate(user models.User, typ TokenType) (string, error) {
	return t.generate(user.ID.String(), user.Username, typ)
}

// Refresh issues a new access token for the subject of a valid refresh token.
func (t *TokenManager) Refresh(refresh *Claims) (string, error) {
	if refresh.Type != RefreshToken {
		return "", ErrWrongTokenType
	}
	return t.generate(refresh.Subject, refresh.Username, AccessToken)
}

func (t *TokenManager) generate(subject, username string, typ TokenType) (string, error) {
	ttl := t.accessTTL
	if typ == RefreshToken {
		ttl = t.refreshTTL
	}
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:     typ,
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse validates raw and checks it is of the wanted type.
func (t *TokenManager) Parse(raw string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
