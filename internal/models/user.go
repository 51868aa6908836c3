package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           uuid.UUID    `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Phone        string       `json:"phone"`
	AboutMe      string       `json:"about_me,omitempty"`
	Address      string       `json:"address,omitempty"`
	Confirmed    bool         `json:"confirmed"`
	PasswordHash string       `json:"-"`
	Roles        []Role       `json:"roles"`
	Followers    []FollowEdge `json:"-"`
	Followings   []FollowEdge `json:"-"`
	MemberSince  time.Time    `json:"member_since"`
	LastSeen     time.Time    `json:"last_seen"`
	DeletedAt    *time.Time   `json:"-"`
}

// Deleted reports whether the user has been soft-deleted.
func (u User) Deleted() bool {
	return u.DeletedAt != nil
}

// Can reports whether any of the user's roles holds perm.
func (u User) Can(perm Permission) bool {
	for _, role := range u.Roles {
		if role.HasPermission(perm) {
			return true
		}
	}
	return false
}

// CanAny reports whether the user holds at least one of perms.
func (u User) CanAny(perms ...Permission) bool {
	for _, perm := range perms {
		if u.Can(perm) {
			return true
		}
	}
	return false
}

// IsAdministrator reports whether the user holds the ADMIN permission.
func (u User) IsAdministrator() bool {
	return u.Can(PermAdmin)
}

// FullName joins first and last name, trimming when either is empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// MarshalJSON adds the derived full_name to the stored fields.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return json.Marshal(struct {
		plain
		FullName string `json:"full_name"`
	}{plain(u), u.FullName()})
}

// Ping refreshes the last-seen timestamp.
func (u *User) Ping(now time.Time) {
	u.LastSeen = now
}

// IsFollowing reports whether u has an edge to other in its followings.
func (u User) IsFollowing(other uuid.UUID) bool {
	_, ok := findEdge(u.Followings, other)
	return ok
}

// IsFollowedBy reports whether other appears in u's followers.
func (u User) IsFollowedBy(other uuid.UUID) bool {
	_, ok := findEdge(u.Followers, other)
	return ok
}

// FollowingEdge returns the edge in u.Followings pointing at other.
func (u User) FollowingEdge(other uuid.UUID) (FollowEdge, bool) {
	return findEdge(u.Followings, other)
}

// FollowerEdge returns the edge in u.Followers pointing at other.
func (u User) FollowerEdge(other uuid.UUID) (FollowEdge, bool) {
	return findEdge(u.Followers, other)
}
