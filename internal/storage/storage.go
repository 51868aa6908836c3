package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// Page is an offset/limit window over an ordered list.
type Page struct {
	Offset int
	Limit  int
}

// UserUpdate lists the columns to set; nil fields are left alone.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Username     *string
	Phone        *string
	AboutMe      *string
	Address      *string
	PasswordHash *string
	LastSeen     *time.Time
}

// PostUpdate lists the post columns to set.
type PostUpdate struct {
	Title    *string
	Body     *string
	ImageURL *string
}

// CommentUpdate lists the comment columns to set.
type CommentUpdate struct {
	Body     *string
	Disabled *bool
}

// RoleStore exposes the role catalogue.
type RoleStore interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
}

// UserStore captures persistence operations for users. Every lookup skips
// soft-deleted rows.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context, page Page) ([]models.User, error)
	// UsernameTaken and EmailTaken compare case-insensitively and ignore
	// the user identified by exclude (uuid.Nil to check against everyone).
	UsernameTaken(ctx context.Context, username string, exclude uuid.UUID) (bool, error)
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	UpdateUser(ctx context.Context, id uuid.UUID, update UserUpdate) (models.User, error)
	SoftDeleteUser(ctx context.Context, id uuid.UUID, at time.Time) error
}

// FollowStore persists the follow edges embedded on both users.
type FollowStore interface {
	ListFollowers(ctx context.Context, userID uuid.UUID, page Page) ([]models.FollowEdge, error)
	ListFollowings(ctx context.Context, userID uuid.UUID, page Page) ([]models.FollowEdge, error)
	// AddFollow writes whichever of the two edges is missing. Both writes
	// commit together or not at all.
	AddFollow(ctx context.Context, followerID, followedID uuid.UUID, at time.Time) error
	// RemoveFollow pulls whichever of the two edges exists, atomically.
	RemoveFollow(ctx context.Context, followerID, followedID uuid.UUID) error
}

// PostStore persists posts and the comments they own.
type PostStore interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	FindPostByID(ctx context.Context, id uuid.UUID) (models.Post, error)
	ListPosts(ctx context.Context, page Page) ([]models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, update PostUpdate) (models.Post, error)
	SoftDeletePost(ctx context.Context, id uuid.UUID, at time.Time) error

	ListComments(ctx context.Context, postID uuid.UUID, page Page) ([]models.Comment, error)
	FindComment(ctx context.Context, postID, commentID uuid.UUID) (models.Comment, error)
	AddComment(ctx context.Context, postID uuid.UUID, comment models.Comment) (models.Comment, error)
	UpdateComment(ctx context.Context, postID, commentID uuid.UUID, update CommentUpdate) (models.Comment, error)
	RemoveComment(ctx context.Context, postID, commentID uuid.UUID) error
}

// Store bundles every persistence concern handed to the service layer.
type Store interface {
	RoleStore
	UserStore
	FollowStore
	PostStore
	Close()
}
