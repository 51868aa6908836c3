package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/storage"
)

func (s *Service) CreatePost(ctx context.Context, author models.User, req dto.CreatePostRequest) (models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Post{}, err
	}
	return s.store.CreatePost(ctx, models.Post{
		ID:        uuid.New(),
		Title:     req.Title,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		AuthorID:  author.ID,
		Timestamp: s.now(),
	})
}

func (s *Service) GetPost(ctx context.Context, rawID string) (models.Post, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Post{}, err
	}
	return s.store.FindPostByID(ctx, id)
}

func (s *Service) ListPosts(ctx context.Context, p Pagination) (PageResult[models.Post], error) {
	posts, err := s.store.ListPosts(ctx, p.window())
	if err != nil {
		return PageResult[models.Post]{}, err
	}
	return paginate(posts, p), nil
}

// UpdatePost changes only the supplied fields.
func (s *Service) UpdatePost(ctx context.Context, rawID string, req dto.UpdatePostRequest) (models.Post, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Post{}, err
	}
	if _, err := s.store.FindPostByID(ctx, id); err != nil {
		return models.Post{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return models.Post{}, err
	}
	return s.store.UpdatePost(ctx, id, storage.PostUpdate{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
}

func (s *Service) DeletePost(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return s.store.SoftDeletePost(ctx, id, s.now())
}

func (s *Service) ListComments(ctx context.Context, rawPostID string, p Pagination) (PageResult[models.Comment], error) {
	postID, err := parseID(rawPostID)
	if err != nil {
		return PageResult[models.Comment]{}, err
	}
	comments, err := s.store.ListComments(ctx, postID, p.window())
	if err != nil {
		return PageResult[models.Comment]{}, err
	}
	return paginate(comments, p), nil
}

func (s *Service) GetComment(ctx context.Context, rawPostID, rawCommentID string) (models.Comment, error) {
	postID, commentID, err := commentIDs(rawPostID, rawCommentID)
	if err != nil {
		return models.Comment{}, err
	}
	return s.store.FindComment(ctx, postID, commentID)
}

func (s *Service) CreateComment(ctx context.Context, rawPostID string, author models.User, req dto.CreateCommentRequest) (models.Comment, error) {
	postID, err := parseID(rawPostID)
	if err != nil {
		return models.Comment{}, err
	}
	if _, err := s.store.FindPostByID(ctx, postID); err != nil {
		return models.Comment{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return models.Comment{}, err
	}
	return s.store.AddComment(ctx, postID, models.Comment{
		ID:        uuid.New(),
		Body:      req.Body,
		Timestamp: s.now(),
		AuthorID:  author.ID,
	})
}

func (s *Service) UpdateComment(ctx context.Context, rawPostID, rawCommentID string, req dto.UpdateCommentRequest) (models.Comment, error) {
	postID, commentID, err := commentIDs(rawPostID, rawCommentID)
	if err != nil {
		return models.Comment{}, err
	}
	if _, err := s.store.FindComment(ctx, postID, commentID); err != nil {
		return models.Comment{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return models.Comment{}, err
	}
	return s.store.UpdateComment(ctx, postID, commentID, storage.CommentUpdate{
		Body:     req.Body,
		Disabled: req.Disabled,
	})
}

// DeleteComment pulls the comment from its post.
func (s *Service) DeleteComment(ctx context.Context, rawPostID, rawCommentID string) error {
	postID, commentID, err := commentIDs(rawPostID, rawCommentID)
	if err != nil {
		return err
	}
	return s.store.RemoveComment(ctx, postID, commentID)
}

func commentIDs(rawPostID, rawCommentID string) (uuid.UUID, uuid.UUID, error) {
	postID, err := parseID(rawPostID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	commentID, err := parseID(rawCommentID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return postID, commentID, nil
}
