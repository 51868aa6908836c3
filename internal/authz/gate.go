// Package authz decides whether an authenticated identity may run a guarded
// operation, based on the permission bits of the identity's roles.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

// DeniedMessage is returned to clients for every rejected check.
const DeniedMessage = "You do not have sufficient permissions to access this page."

// ErrForbidden is returned when the gate rejects a request.
var ErrForbidden = errors.New(DeniedMessage)

// Requirement is a set of acceptable permissions; holding any one suffices.
type Requirement struct {
	perms []models.Permission
}

// AnyOf accepts a user holding at least one of perms.
func AnyOf(perms ...models.Permission) Requirement {
	return Requirement{perms: perms}
}

// Equals accepts a user holding perm. Other bits the user holds do not matter.
func Equals(perm models.Permission) Requirement {
	return AnyOf(perm)
}

// Allows is the pure predicate behind the gate.
func (r Requirement) Allows(u models.User) bool {
	return !u.Deleted() && u.CanAny(r.perms...)
}

func (r Requirement) String() string {
	return fmt.Sprintf("any of %v", r.perms)
}

// UserFinder resolves identities to live users.
type UserFinder interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// Gate checks requirements against the user behind an identity.
type Gate struct {
	users UserFinder
}

// NewGate creates a gate resolving identities through users.
func NewGate(users UserFinder) *Gate {
	return &Gate{users: users}
}

// Authorize resolves identity and checks req. An empty identity, one that
// does not resolve to a live user, and a user lacking every listed
// permission all yield ErrForbidden.
func (g *Gate) Authorize(ctx context.Context, identity string, req Requirement) (models.User, error) {
	if identity == "" {
		return models.User{}, ErrForbidden
	}
	id, err := uuid.Parse(identity)
	if err != nil {
		return models.User{}, ErrForbidden
	}
	user, err := g.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrForbidden
		}
		return models.User{}, fmt.Errorf("resolve identity: %w", err)
	}
	if !req.Allows(user) {
		return models.User{}, ErrForbidden
	}
	return user, nil
}

type userKey struct{}

// WithUser stores the authorized user on ctx.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom returns the user stored by WithUser.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}
