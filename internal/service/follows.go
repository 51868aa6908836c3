package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

// FollowResult reports what a follow or unfollow call did.
type FollowResult struct {
	Changed bool
	Message string
}

// Follow makes followerID follow followedID. When both edges already exist
// nothing is written.
func (s *Service) Follow(ctx context.Context, rawFollower, rawFollowed string) (FollowResult, error) {
	follower, followed, err := s.followPair(ctx, rawFollower, rawFollowed)
	if err != nil {
		return FollowResult{}, err
	}
	if follower.IsFollowing(followed.ID) && followed.IsFollowedBy(follower.ID) {
		return FollowResult{Message: fmt.Sprintf("You are already following %s.", followed.Username)}, nil
	}
	if err := s.store.AddFollow(ctx, follower.ID, followed.ID, s.now()); err != nil {
		return FollowResult{}, err
	}
	return FollowResult{Changed: true, Message: fmt.Sprintf("You are now following %s.", followed.Username)}, nil
}

// Unfollow removes the relationship. When neither edge exists nothing is
// written; a half-present relationship is cleaned up on both sides.
func (s *Service) Unfollow(ctx context.Context, rawFollower, rawFollowed string) (FollowResult, error) {
	follower, followed, err := s.followPair(ctx, rawFollower, rawFollowed)
	if err != nil {
		return FollowResult{}, err
	}
	if !follower.IsFollowing(followed.ID) && !followed.IsFollowedBy(follower.ID) {
		return FollowResult{Message: fmt.Sprintf("You are already not following %s.", followed.Username)}, nil
	}
	if err := s.store.RemoveFollow(ctx, follower.ID, followed.ID); err != nil {
		return FollowResult{}, err
	}
	return FollowResult{Changed: true, Message: fmt.Sprintf("You are now not following %s.", followed.Username)}, nil
}

func (s *Service) followPair(ctx context.Context, rawFollower, rawFollowed string) (models.User, models.User, error) {
	follower, err := s.GetUser(ctx, rawFollower)
	if err != nil {
		return models.User{}, models.User{}, err
	}
	followed, err := s.GetUser(ctx, rawFollowed)
	if err != nil {
		return models.User{}, models.User{}, err
	}
	return follower, followed, nil
}

func (s *Service) ListFollowers(ctx context.Context, rawUserID string, p Pagination) (PageResult[models.FollowEdge], error) {
	return s.listEdges(ctx, rawUserID, p, s.store.ListFollowers)
}

func (s *Service) ListFollowings(ctx context.Context, rawUserID string, p Pagination) (PageResult[models.FollowEdge], error) {
	return s.listEdges(ctx, rawUserID, p, s.store.ListFollowings)
}

type edgeLister func(ctx context.Context, userID uuid.UUID, page storage.Page) ([]models.FollowEdge, error)

func (s *Service) listEdges(ctx context.Context, rawUserID string, p Pagination, list edgeLister) (PageResult[models.FollowEdge], error) {
	id, err := parseID(rawUserID)
	if err != nil {
		return PageResult[models.FollowEdge]{}, err
	}
	edges, err := list(ctx, id, p.window())
	if err != nil {
		return PageResult[models.FollowEdge]{}, err
	}
	return paginate(edges, p), nil
}

// GetFollower resolves (userID, edgeID) through the user's followers.
func (s *Service) GetFollower(ctx context.Context, rawUserID, rawEdgeID string) (models.FollowEdge, error) {
	return s.getEdge(ctx, rawUserID, rawEdgeID, func(u models.User) []models.FollowEdge { return u.Followers })
}

// GetFollowing resolves (userID, edgeID) through the user's followings.
func (s *Service) GetFollowing(ctx context.Context, rawUserID, rawEdgeID string) (models.FollowEdge, error) {
	return s.getEdge(ctx, rawUserID, rawEdgeID, func(u models.User) []models.FollowEdge { return u.Followings })
}

func (s *Service) getEdge(ctx context.Context, rawUserID, rawEdgeID string, edges func(models.User) []models.FollowEdge) (models.FollowEdge, error) {
	edgeID, err := parseID(rawEdgeID)
	if err != nil {
		return models.FollowEdge{}, err
	}
	owner, err := s.GetUser(ctx, rawUserID)
	if err != nil {
		return models.FollowEdge{}, err
	}
	edge, ok := models.FindEdgeByID(edges(owner), edgeID)
	if !ok {
		return models.FollowEdge{}, storage.ErrNotFound
	}
	return edge, nil
}
