package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

const userSelect = `
	SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.phone, u.about_me, u.address,
		u.confirmed, u.password_hash, u.roles, u.member_since, u.last_seen, u.deleted_at,
		COALESCE((
			SELECT json_agg(json_build_object('id', f.id, 'timestamp', f.created_at, 'user_id', f.user_id) ORDER BY f.seq)
			FROM user_followers f WHERE f.owner_id = u.id
		), '[]'::json),
		COALESCE((
			SELECT json_agg(json_build_object('id', f.id, 'timestamp', f.created_at, 'user_id', f.user_id) ORDER BY f.seq)
			FROM user_followings f WHERE f.owner_id = u.id
		), '[]'::json)
	FROM users u
	`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	const query = `
		INSERT INTO users (id, username, email, first_name, last_name, phone, about_me, address,
			confirmed, password_hash, roles, member_since, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return models.User{}, fmt.Errorf("encode roles: %w", err)
	}
	_, err = s.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Phone, user.AboutMe,
		user.Address, user.Confirmed, user.PasswordHash, roles, user.MemberSince, user.LastSeen)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return s.FindUserByID(ctx, user.ID)
}

// FindUserByID fetches a live user with its follow edges.
func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := s.pool.QueryRow(ctx, userSelect+`WHERE u.id = $1 AND u.deleted_at IS NULL;`, id)
	return scanUser(row)
}

// FindByUsername fetches a live user by case-insensitive username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, userSelect+`WHERE lower(u.username) = lower($1) AND u.deleted_at IS NULL LIMIT 1;`, username)
	return scanUser(row)
}

// ListUsers returns live users in creation order.
func (s *Store) ListUsers(ctx context.Context, page storage.Page) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		userSelect+`WHERE u.deleted_at IS NULL ORDER BY u.member_since, u.id OFFSET $1 LIMIT $2;`,
		page.Offset, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UsernameTaken(ctx context.Context, username string, exclude uuid.UUID) (bool, error) {
	return s.taken(ctx, `lower(username) = lower($1)`, username, exclude)
}

func (s *Store) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	return s.taken(ctx, `lower(email) = lower($1)`, email, exclude)
}

func (s *Store) taken(ctx context.Context, predicate, value string, exclude uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + predicate + ` AND id <> $2 AND deleted_at IS NULL);`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, value, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("uniqueness check: %w", err)
	}
	return exists, nil
}

// UpdateUser sets only the supplied columns.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, update storage.UserUpdate) (models.User, error) {
	const query = `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email),
			username = COALESCE($5, username),
			phone = COALESCE($6, phone),
			about_me = COALESCE($7, about_me),
			address = COALESCE($8, address),
			password_hash = COALESCE($9, password_hash),
			last_seen = COALESCE($10, last_seen)
		WHERE id = $1 AND deleted_at IS NULL;
	`
	tag, err := s.pool.Exec(ctx, query, id,
		update.FirstName, update.LastName, update.Email, update.Username, update.Phone,
		update.AboutMe, update.Address, update.PasswordHash, update.LastSeen)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.User{}, storage.ErrNotFound
	}
	return s.FindUserByID(ctx, id)
}

// SoftDeleteUser stamps deleted_at; edges, posts and comments are left as is.
func (s *Store) SoftDeleteUser(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL;`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
		&user.AboutMe, &user.Address, &user.Confirmed, &user.PasswordHash, &user.Roles,
		&user.MemberSince, &user.LastSeen, &user.DeletedAt, &user.Followers, &user.Followings)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

func userLive(ctx context.Context, q querier, id uuid.UUID, lock bool) error {
	query := `SELECT 1 FROM users WHERE id = $1 AND deleted_at IS NULL`
	if lock {
		query += ` FOR UPDATE`
	}
	var one int
	if err := q.QueryRow(ctx, query, id).Scan(&one); err != nil {
		return notFound(err)
	}
	return nil
}
