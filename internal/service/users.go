package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/hongminglow/blog-be/internal/validation"
)

const (
	msgEmailTaken    = "Email already exist."
	msgUsernameTaken = "Username already exist."
)

// RegisterUser validates req and creates a user holding the default role.
func (s *Service) RegisterUser(ctx context.Context, req dto.CreateUserRequest) (models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, err
	}
	if err := s.checkUnique(ctx, &req.Email, &req.Username, uuid.Nil); err != nil {
		return models.User{}, err
	}
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("load roles: %w", err)
	}
	role, err := models.DefaultRole(roles)
	if err != nil {
		return models.User{}, err
	}
	return s.createUser(ctx, req, role)
}

// EnsureAdministrator creates an administrator account unless the username
// is already in use.
func (s *Service) EnsureAdministrator(ctx context.Context, req dto.CreateUserRequest) (models.User, bool, error) {
	existing, err := s.store.FindByUsername(ctx, req.Username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, false, err
	}
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, false, err
	}
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("load roles: %w", err)
	}
	for _, role := range roles {
		if role.Name == models.RoleAdministrator {
			created, err := s.createUser(ctx, req, role)
			return created, err == nil, err
		}
	}
	return models.User{}, false, fmt.Errorf("role %q not configured", models.RoleAdministrator)
}

func (s *Service) createUser(ctx context.Context, req dto.CreateUserRequest, role models.Role) (models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	user := models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		AboutMe:      req.AboutMe,
		Address:      req.Address,
		PasswordHash: hash,
		Roles:        []models.Role{role},
		MemberSince:  now,
		LastSeen:     now,
	}
	created, err := s.store.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrAlreadyExists) {
		// lost a race with a concurrent registration
		return models.User{}, s.conflict(ctx, &req.Email, &req.Username, uuid.Nil)
	}
	return created, err
}

// GetUser returns a live user.
func (s *Service) GetUser(ctx context.Context, rawID string) (models.User, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.User{}, err
	}
	return s.store.FindUserByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, p Pagination) (PageResult[models.User], error) {
	users, err := s.store.ListUsers(ctx, p.window())
	if err != nil {
		return PageResult[models.User]{}, err
	}
	return paginate(users, p), nil
}

// UpdateUser applies the supplied fields only. Email and username conflicts
// with other live users are reported together.
func (s *Service) UpdateUser(ctx context.Context, rawID string, req dto.UpdateUserRequest) (models.User, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.store.FindUserByID(ctx, id); err != nil {
		return models.User{}, err
	}
	req.Email = trimmed(req.Email)
	req.Username = trimmed(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, err
	}
	if err := s.checkUnique(ctx, req.Email, req.Username, id); err != nil {
		return models.User{}, err
	}

	update := storage.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Phone:     req.Phone,
		AboutMe:   req.AboutMe,
		Address:   req.Address,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
	}
	updated, err := s.store.UpdateUser(ctx, id, update)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return models.User{}, s.conflict(ctx, req.Email, req.Username, id)
	}
	return updated, err
}

// DeleteUser soft-deletes a user. Posts, comments and follow edges stay.
func (s *Service) DeleteUser(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return s.store.SoftDeleteUser(ctx, id, s.now())
}

// Authenticate checks credentials and records the visit. Every failure is
// reported as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	user, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	user.Ping(s.now())
	if _, err := s.store.UpdateUser(ctx, user.ID, storage.UserUpdate{LastSeen: &user.LastSeen}); err != nil {
		return models.User{}, fmt.Errorf("record last seen: %w", err)
	}
	return user, nil
}

// checkUnique collects every conflict before returning.
func (s *Service) checkUnique(ctx context.Context, email, username *string, exclude uuid.UUID) error {
	errs := validation.Errors{}
	if email != nil {
		taken, err := s.store.EmailTaken(ctx, *email, exclude)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("email", msgEmailTaken)
		}
	}
	if username != nil {
		taken, err := s.store.UsernameTaken(ctx, *username, exclude)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("username", msgUsernameTaken)
		}
	}
	return errs.Err()
}

// conflict explains a unique violation reported by the store.
func (s *Service) conflict(ctx context.Context, email, username *string, exclude uuid.UUID) error {
	if err := s.checkUnique(ctx, email, username, exclude); err != nil {
		return err
	}
	return storage.ErrAlreadyExists
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
