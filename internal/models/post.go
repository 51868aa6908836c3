package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is authored content. Comments is only filled for single-post lookups.
type Post struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ImageURL  string     `json:"image_url"`
	AuthorID  uuid.UUID  `json:"author_id"`
	Timestamp time.Time  `json:"timestamp"`
	Comments  []Comment  `json:"comments,omitempty"`
	DeletedAt *time.Time `json:"-"`
}

// Deleted reports whether the post has been soft-deleted.
func (p Post) Deleted() bool {
	return p.DeletedAt != nil
}

// Comment belongs to exactly one post and is addressed through it.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Body      string    `json:"body"`
	Disabled  bool      `json:"disabled"`
	Timestamp time.Time `json:"timestamp"`
	AuthorID  uuid.UUID `json:"author_id"`
}

// FindComment scans the post's comments for id.
func (p Post) FindComment(id uuid.UUID) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}
