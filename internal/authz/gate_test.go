package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

type stubUsers map[uuid.UUID]models.User

func (s stubUsers) FindUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	u, ok := s[id]
	if !ok || u.Deleted() {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

type failingUsers struct{}

func (failingUsers) FindUserByID(context.Context, uuid.UUID) (models.User, error) {
	return models.User{}, errors.New("connection reset")
}

func userWith(perms ...models.Permission) models.User {
	return models.User{ID: uuid.New(), Roles: []models.Role{models.NewRole("r", false, perms...)}}
}

func TestRequirementAllows(t *testing.T) {
	writer := userWith(models.PermWrite)
	adminWriter := userWith(models.PermAdmin | models.PermWrite)
	commenter := userWith(models.PermComment)

	cases := []struct {
		name string
		req  Requirement
		user models.User
		want bool
	}{
		{"any-of grants on a single held flag", AnyOf(models.PermFollow, models.PermWrite), writer, true},
		{"equals ignores extra bits", Equals(models.PermAdmin), adminWriter, true},
		{"equals denies missing bit", Equals(models.PermAdmin), writer, false},
		{"comment cannot write", AnyOf(models.PermWrite, models.PermModerate, models.PermAdmin), commenter, false},
		{"empty requirement denies", AnyOf(), writer, false},
	}
	for _, c := range cases {
		if got := c.req.Allows(c.user); got != c.want {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}

	deleted := userWith(models.AllPermissions)
	at := time.Now()
	deleted.DeletedAt = &at
	if AnyOf(models.PermAdmin).Allows(deleted) {
		t.Fatal("soft-deleted users must never pass")
	}
}

func TestGateAuthorize(t *testing.T) {
	ctx := context.Background()
	admin := userWith(models.PermAdmin)
	commenter := userWith(models.PermComment)
	gone := userWith(models.PermAdmin)
	at := time.Now()
	gone.DeletedAt = &at
	gate := NewGate(stubUsers{admin.ID: admin, commenter.ID: commenter, gone.ID: gone})

	got, err := gate.Authorize(ctx, admin.ID.String(), Equals(models.PermAdmin))
	if err != nil || got.ID != admin.ID {
		t.Fatalf("admin rejected: %v", err)
	}

	for name, identity := range map[string]string{
		"no identity":  "",
		"malformed":    "not-a-uuid",
		"unknown user": uuid.NewString(),
		"deleted user": gone.ID.String(),
		"insufficient": commenter.ID.String(),
	} {
		_, err := gate.Authorize(ctx, identity, AnyOf(models.PermWrite, models.PermAdmin))
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", name, err)
		}
		if err.Error() != DeniedMessage {
			t.Fatalf("%s: message = %q", name, err.Error())
		}
	}
}

func TestGatePropagatesStoreFailures(t *testing.T) {
	gate := NewGate(failingUsers{})
	_, err := gate.Authorize(context.Background(), uuid.NewString(), Equals(models.PermAdmin))
	if err == nil || errors.Is(err, ErrForbidden) {
		t.Fatalf("expected a store error, got %v", err)
	}
}

func TestUserContext(t *testing.T) {
	u := userWith(models.PermFollow)
	ctx := WithUser(context.Background(), u)
	got, ok := UserFrom(ctx)
	if !ok || got.ID != u.ID {
		t.Fatal("user not carried on context")
	}
	if _, ok := UserFrom(context.Background()); ok {
		t.Fatal("empty context must not yield a user")
	}
}
