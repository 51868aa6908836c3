package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users, follows, posts and comments.
type Store struct {
	pool *pgxpool.Pool
}

// querier is the subset of pgxpool.Pool and pgx.Tx the helpers need.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New creates a new Store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS roles (
			name TEXT PRIMARY KEY,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			permissions INTEGER NOT NULL DEFAULT 0 CHECK (permissions >= 0)
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS roles_single_default_idx ON roles (is_default) WHERE is_default;`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			about_me TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			password_hash TEXT NOT NULL,
			roles JSONB NOT NULL DEFAULT '[]',
			member_since TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_live_idx ON users (lower(username)) WHERE deleted_at IS NULL;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_live_idx ON users (lower(email)) WHERE deleted_at IS NULL;`,
		`CREATE TABLE IF NOT EXISTS user_followings (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			owner_id UUID NOT NULL REFERENCES users(id),
			user_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (owner_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS user_followers (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			owner_id UUID NOT NULL REFERENCES users(id),
			user_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (owner_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			author_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			post_id UUID NOT NULL REFERENCES posts(id),
			body TEXT NOT NULL,
			disabled BOOLEAN NOT NULL DEFAULT FALSE,
			author_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return s.seedRoles(ctx)
}

func (s *Store) seedRoles(ctx context.Context) error {
	for _, role := range models.DefaultRoles() {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO roles (name, is_default, permissions) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING;`,
			role.Name, role.Default, int32(role.Permissions()))
		if err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}
	return nil
}

// ListRoles returns the role catalogue ordered by name.
func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, is_default, permissions FROM roles ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var (
			name      string
			isDefault bool
			perms     int32
		)
		if err := rows.Scan(&name, &isDefault, &perms); err != nil {
			return nil, err
		}
		roles = append(roles, models.NewRole(name, isDefault, models.Permission(perms)))
	}
	return roles, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
