package models

import (
	"time"

	"github.com/google/uuid"
)

// FollowEdge is one side of a follow relationship. UserID is the
// counterparty: the followed user for a followings entry, the follower for
// a followers entry.
type FollowEdge struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    uuid.UUID `json:"user_id"`
}

// NewFollowEdge creates an edge pointing at counterparty.
func NewFollowEdge(counterparty uuid.UUID, at time.Time) FollowEdge {
	return FollowEdge{ID: uuid.New(), Timestamp: at.UTC(), UserID: counterparty}
}

func findEdge(edges []FollowEdge, counterparty uuid.UUID) (FollowEdge, bool) {
	for _, e := range edges {
		if e.UserID == counterparty {
			return e, true
		}
	}
	return FollowEdge{}, false
}

// FindEdgeByID scans edges for the given edge id.
func FindEdgeByID(edges []FollowEdge, id uuid.UUID) (FollowEdge, bool) {
	for _, e := range edges {
		if e.ID == id {
			return e, true
		}
	}
	return FollowEdge{}, false
}
