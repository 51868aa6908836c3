package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

func (s *Store) ListFollowers(ctx context.Context, userID uuid.UUID, page storage.Page) ([]models.FollowEdge, error) {
	return s.listEdges(ctx, "user_followers", userID, page)
}

func (s *Store) ListFollowings(ctx context.Context, userID uuid.UUID, page storage.Page) ([]models.FollowEdge, error) {
	return s.listEdges(ctx, "user_followings", userID, page)
}

func (s *Store) listEdges(ctx context.Context, table string, userID uuid.UUID, page storage.Page) ([]models.FollowEdge, error) {
	if err := userLive(ctx, s.pool, userID, false); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, created_at, user_id FROM %s WHERE owner_id = $1 ORDER BY seq OFFSET $2 LIMIT $3;`, table)
	rows, err := s.pool.Query(ctx, query, userID, page.Offset, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	edges := []models.FollowEdge{}
	for rows.Next() {
		var e models.FollowEdge
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.UserID); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// AddFollow inserts the followings edge on the follower and the followers
// edge on the followed user inside one transaction.
func (s *Store) AddFollow(ctx context.Context, followerID, followedID uuid.UUID, at time.Time) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockPair(ctx, tx, followerID, followedID); err != nil {
			return err
		}
		following := models.NewFollowEdge(followedID, at)
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_followings (id, owner_id, user_id, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (owner_id, user_id) DO NOTHING;`,
			following.ID, followerID, following.UserID, following.Timestamp); err != nil {
			return fmt.Errorf("insert following edge: %w", err)
		}
		follower := models.NewFollowEdge(followerID, at)
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_followers (id, owner_id, user_id, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (owner_id, user_id) DO NOTHING;`,
			follower.ID, followedID, follower.UserID, follower.Timestamp); err != nil {
			return fmt.Errorf("insert follower edge: %w", err)
		}
		return nil
	})
}

// RemoveFollow deletes both edges inside one transaction.
func (s *Store) RemoveFollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockPair(ctx, tx, followerID, followedID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_followings WHERE owner_id = $1 AND user_id = $2;`, followerID, followedID); err != nil {
			return fmt.Errorf("delete following edge: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_followers WHERE owner_id = $1 AND user_id = $2;`, followedID, followerID); err != nil {
			return fmt.Errorf("delete follower edge: %w", err)
		}
		return nil
	})
}

// lockPair row-locks both users in a stable order so concurrent follow
// requests between the same pair serialize instead of deadlocking.
func lockPair(ctx context.Context, tx pgx.Tx, a, b uuid.UUID) error {
	first, second := a, b
	if first.String() > second.String() {
		first, second = second, first
	}
	if err := userLive(ctx, tx, first, true); err != nil {
		return err
	}
	if second == first {
		return nil
	}
	return userLive(ctx, tx, second, true)
}

func (s *Store) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
