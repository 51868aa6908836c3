package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

func mustCreateUser(t *testing.T, s *Store, username string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{Username: username, Email: username + "@example.com"})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

func TestCreateUserRejectsCaseInsensitiveDuplicates(t *testing.T) {
	s := New()
	mustCreateUser(t, s, "alice")
	_, err := s.CreateUser(context.Background(), models.User{Username: "ALICE", Email: "other@example.com"})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSoftDeletedUsersAreHidden(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := mustCreateUser(t, s, "bob")
	if err := s.SoftDeleteUser(ctx, u.ID, time.Now()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := s.FindUserByID(ctx, u.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FindByUsername(ctx, "bob"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound by username, got %v", err)
	}
	taken, err := s.EmailTaken(ctx, "bob@example.com", uuid.Nil)
	if err != nil || taken {
		t.Fatalf("deleted user's email must be free, taken=%v err=%v", taken, err)
	}
	if err := s.SoftDeleteUser(ctx, u.ID, time.Now()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestTakenExcludesSelf(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := mustCreateUser(t, s, "carol")
	taken, _ := s.UsernameTaken(ctx, "Carol", u.ID)
	if taken {
		t.Fatal("own username must not count as taken")
	}
	taken, _ = s.UsernameTaken(ctx, "Carol", uuid.Nil)
	if !taken {
		t.Fatal("username should be taken for everyone else")
	}
}

func TestFollowWritesBothSidesOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustCreateUser(t, s, "a")
	b := mustCreateUser(t, s, "b")
	now := time.Now()

	for range 2 {
		if err := s.AddFollow(ctx, a.ID, b.ID, now); err != nil {
			t.Fatalf("add follow: %v", err)
		}
	}
	a, _ = s.FindUserByID(ctx, a.ID)
	b, _ = s.FindUserByID(ctx, b.ID)
	if len(a.Followings) != 1 || a.Followings[0].UserID != b.ID {
		t.Fatalf("a.followings = %+v", a.Followings)
	}
	if len(b.Followers) != 1 || b.Followers[0].UserID != a.ID {
		t.Fatalf("b.followers = %+v", b.Followers)
	}
	if len(a.Followers) != 0 || len(b.Followings) != 0 {
		t.Fatal("reverse direction must stay empty")
	}

	if err := s.RemoveFollow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("remove follow: %v", err)
	}
	a, _ = s.FindUserByID(ctx, a.ID)
	b, _ = s.FindUserByID(ctx, b.ID)
	if len(a.Followings) != 0 || len(b.Followers) != 0 {
		t.Fatal("edges should be pulled from both sides")
	}
}

func TestFollowUnknownUser(t *testing.T) {
	s := New()
	a := mustCreateUser(t, s, "a")
	err := s.AddFollow(context.Background(), a.ID, uuid.New(), time.Now())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	a, _ = s.FindUserByID(context.Background(), a.ID)
	if len(a.Followings) != 0 {
		t.Fatal("no edge may be written when the counterparty is missing")
	}
}

func TestCommentsFollowTheirPost(t *testing.T) {
	ctx := context.Background()
	s := New()
	post, err := s.CreatePost(ctx, models.Post{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	c, err := s.AddComment(ctx, post.ID, models.Comment{Body: "first"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	disabled := true
	updated, err := s.UpdateComment(ctx, post.ID, c.ID, storage.CommentUpdate{Disabled: &disabled})
	if err != nil || !updated.Disabled || updated.Body != "first" {
		t.Fatalf("update comment = %+v, %v", updated, err)
	}
	if _, err := s.FindComment(ctx, uuid.New(), c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("comment must not resolve through another post, got %v", err)
	}
	if err := s.RemoveComment(ctx, post.ID, c.ID); err != nil {
		t.Fatalf("remove comment: %v", err)
	}
	if err := s.RemoveComment(ctx, post.ID, c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second remove should be not found, got %v", err)
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	cases := []struct {
		page storage.Page
		want int
	}{
		{storage.Page{Offset: 0, Limit: 2}, 2},
		{storage.Page{Offset: 4, Limit: 2}, 1},
		{storage.Page{Offset: 5, Limit: 2}, 0},
		{storage.Page{Offset: -2, Limit: 2}, 0},
		{storage.Page{Offset: 0, Limit: 0}, 0},
	}
	for i, c := range cases {
		if got := window(items, c.page); len(got) != c.want {
			t.Fatalf("case %d: len = %d, want %d", i, len(got), c.want)
		}
	}
}
