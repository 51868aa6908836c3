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

// CreatePost inserts a new post row.
func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	const query = `
		INSERT INTO posts (id, title, body, image_url, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, body, image_url, author_id, created_at, deleted_at;
	`
	row := s.pool.QueryRow(ctx, query, post.ID, post.Title, post.Body, post.ImageURL, post.AuthorID, post.Timestamp)
	created, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Post{}, storage.ErrAlreadyExists
		}
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return created, nil
}

// FindPostByID fetches a live post together with its comments.
func (s *Store) FindPostByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	const query = `
		SELECT id, title, body, image_url, author_id, created_at, deleted_at
		FROM posts WHERE id = $1 AND deleted_at IS NULL;
	`
	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Post{}, err
	}
	post.Comments, err = s.queryComments(ctx, s.pool, id, storage.Page{Offset: 0, Limit: -1})
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// ListPosts returns live posts in creation order, without comments.
func (s *Store) ListPosts(ctx context.Context, page storage.Page) ([]models.Post, error) {
	const query = `
		SELECT id, title, body, image_url, author_id, created_at, deleted_at
		FROM posts WHERE deleted_at IS NULL ORDER BY seq OFFSET $1 LIMIT $2;
	`
	rows, err := s.pool.Query(ctx, query, page.Offset, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePost sets only the supplied columns.
func (s *Store) UpdatePost(ctx context.Context, id uuid.UUID, update storage.PostUpdate) (models.Post, error) {
	const query = `
		UPDATE posts SET
			title = COALESCE($2, title),
			body = COALESCE($3, body),
			image_url = COALESCE($4, image_url)
		WHERE id = $1 AND deleted_at IS NULL;
	`
	tag, err := s.pool.Exec(ctx, query, id, update.Title, update.Body, update.ImageURL)
	if err != nil {
		return models.Post{}, fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Post{}, storage.ErrNotFound
	}
	return s.FindPostByID(ctx, id)
}

// SoftDeletePost stamps deleted_at; comments stay attached.
func (s *Store) SoftDeletePost(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE posts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL;`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("soft delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, postID uuid.UUID, page storage.Page) ([]models.Comment, error) {
	if err := postLive(ctx, s.pool, postID); err != nil {
		return nil, err
	}
	return s.queryComments(ctx, s.pool, postID, page)
}

func (s *Store) FindComment(ctx context.Context, postID, commentID uuid.UUID) (models.Comment, error) {
	const query = `
		SELECT c.id, c.body, c.disabled, c.created_at, c.author_id
		FROM comments c JOIN posts p ON p.id = c.post_id
		WHERE c.post_id = $1 AND c.id = $2 AND p.deleted_at IS NULL;
	`
	return scanComment(s.pool.QueryRow(ctx, query, postID, commentID))
}

func (s *Store) AddComment(ctx context.Context, postID uuid.UUID, comment models.Comment) (models.Comment, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	var created models.Comment
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := postLive(ctx, tx, postID); err != nil {
			return err
		}
		const query = `
			INSERT INTO comments (id, post_id, body, disabled, author_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, body, disabled, created_at, author_id;
		`
		var err error
		created, err = scanComment(tx.QueryRow(ctx, query,
			comment.ID, postID, comment.Body, comment.Disabled, comment.AuthorID, comment.Timestamp))
		return err
	})
	if err != nil {
		return models.Comment{}, err
	}
	return created, nil
}

func (s *Store) UpdateComment(ctx context.Context, postID, commentID uuid.UUID, update storage.CommentUpdate) (models.Comment, error) {
	const query = `
		UPDATE comments c SET
			body = COALESCE($3, c.body),
			disabled = COALESCE($4, c.disabled)
		FROM posts p
		WHERE c.post_id = p.id AND c.post_id = $1 AND c.id = $2 AND p.deleted_at IS NULL
		RETURNING c.id, c.body, c.disabled, c.created_at, c.author_id;
	`
	return scanComment(s.pool.QueryRow(ctx, query, postID, commentID, update.Body, update.Disabled))
}

func (s *Store) RemoveComment(ctx context.Context, postID, commentID uuid.UUID) error {
	const query = `
		DELETE FROM comments c USING posts p
		WHERE c.post_id = p.id AND c.post_id = $1 AND c.id = $2 AND p.deleted_at IS NULL;
	`
	tag, err := s.pool.Exec(ctx, query, postID, commentID)
	if err != nil {
		return fmt.Errorf("remove comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// queryComments lists a post's comments; a negative limit returns them all.
func (s *Store) queryComments(ctx context.Context, q querier, postID uuid.UUID, page storage.Page) ([]models.Comment, error) {
	query := `
		SELECT id, body, disabled, created_at, author_id
		FROM comments WHERE post_id = $1 ORDER BY seq OFFSET $2`
	args := []any{postID, page.Offset}
	if page.Limit >= 0 {
		query += ` LIMIT $3`
		args = append(args, page.Limit)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func postLive(ctx context.Context, q querier, id uuid.UUID) error {
	var one int
	if err := q.QueryRow(ctx, `SELECT 1 FROM posts WHERE id = $1 AND deleted_at IS NULL;`, id).Scan(&one); err != nil {
		return notFound(err)
	}
	return nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.ImageURL, &p.AuthorID, &p.Timestamp, &p.DeletedAt); err != nil {
		return models.Post{}, notFound(err)
	}
	return p, nil
}

func scanComment(row pgx.Row) (models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.Body, &c.Disabled, &c.Timestamp, &c.AuthorID); err != nil {
		return models.Comment{}, notFound(err)
	}
	return c, nil
}
