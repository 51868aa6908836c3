package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store keeps every document in process memory. It backs the test suites
// and STORAGE_DRIVER=memory for local runs.
type Store struct {
	mu sync.RWMutex

	roles     []models.Role
	users     map[uuid.UUID]*models.User
	userOrder []uuid.UUID
	posts     map[uuid.UUID]*models.Post
	postOrder []uuid.UUID
}

// New returns an empty store seeded with the default role catalogue.
func New() *Store {
	return &Store{
		roles: models.DefaultRoles(),
		users: make(map[uuid.UUID]*models.User),
		posts: make(map[uuid.UUID]*models.Post),
	}
}

// Close is a no-op kept for interface parity with the Postgres store.
func (s *Store) Close() {}

func (s *Store) ListRoles(_ context.Context) ([]models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.roles), nil
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.DeletedAt != nil {
			continue
		}
		if strings.EqualFold(existing.Username, user.Username) || strings.EqualFold(existing.Email, user.Email) {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := copyUser(user)
	s.users[user.ID] = &stored
	s.userOrder = append(s.userOrder, user.ID)
	return copyUser(stored), nil
}

func (s *Store) FindUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.liveUser(id)
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return copyUser(*u), nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.userOrder {
		u := s.users[id]
		if u.DeletedAt == nil && strings.EqualFold(u.Username, username) {
			return copyUser(*u), nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context, page storage.Page) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var live []models.User
	for _, id := range s.userOrder {
		if u := s.users[id]; u.DeletedAt == nil {
			live = append(live, copyUser(*u))
		}
	}
	return window(live, page), nil
}

func (s *Store) UsernameTaken(_ context.Context, username string, exclude uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, u := range s.users {
		if id != exclude && u.DeletedAt == nil && strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) EmailTaken(_ context.Context, email string, exclude uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, u := range s.users {
		if id != exclude && u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateUser(_ context.Context, id uuid.UUID, update storage.UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.liveUser(id)
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	setIf(&u.FirstName, update.FirstName)
	setIf(&u.LastName, update.LastName)
	setIf(&u.Email, update.Email)
	setIf(&u.Username, update.Username)
	setIf(&u.Phone, update.Phone)
	setIf(&u.AboutMe, update.AboutMe)
	setIf(&u.Address, update.Address)
	setIf(&u.PasswordHash, update.PasswordHash)
	setIf(&u.LastSeen, update.LastSeen)
	return copyUser(*u), nil
}

func (s *Store) SoftDeleteUser(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.liveUser(id)
	if !ok {
		return storage.ErrNotFound
	}
	at = at.UTC()
	u.DeletedAt = &at
	return nil
}

func (s *Store) ListFollowers(_ context.Context, userID uuid.UUID, page storage.Page) ([]models.FollowEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.liveUser(userID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return window(slices.Clone(u.Followers), page), nil
}

func (s *Store) ListFollowings(_ context.Context, userID uuid.UUID, page storage.Page) ([]models.FollowEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.liveUser(userID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return window(slices.Clone(u.Followings), page), nil
}

func (s *Store) AddFollow(_ context.Context, followerID, followedID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	follower, ok := s.liveUser(followerID)
	if !ok {
		return storage.ErrNotFound
	}
	followed, ok := s.liveUser(followedID)
	if !ok {
		return storage.ErrNotFound
	}
	if !follower.IsFollowing(followedID) {
		follower.Followings = append(follower.Followings, models.NewFollowEdge(followedID, at))
	}
	if !followed.IsFollowedBy(followerID) {
		followed.Followers = append(followed.Followers, models.NewFollowEdge(followerID, at))
	}
	return nil
}

func (s *Store) RemoveFollow(_ context.Context, followerID, followedID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	follower, ok := s.liveUser(followerID)
	if !ok {
		return storage.ErrNotFound
	}
	followed, ok := s.liveUser(followedID)
	if !ok {
		return storage.ErrNotFound
	}
	follower.Followings = slices.DeleteFunc(follower.Followings, func(e models.FollowEdge) bool {
		return e.UserID == followedID
	})
	followed.Followers = slices.DeleteFunc(followed.Followers, func(e models.FollowEdge) bool {
		return e.UserID == followerID
	})
	return nil
}

func (s *Store) CreatePost(_ context.Context, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if _, exists := s.posts[post.ID]; exists {
		return models.Post{}, storage.ErrAlreadyExists
	}
	stored := copyPost(post)
	s.posts[post.ID] = &stored
	s.postOrder = append(s.postOrder, post.ID)
	return copyPost(stored), nil
}

func (s *Store) FindPostByID(_ context.Context, id uuid.UUID) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.livePost(id)
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}
	return copyPost(*p), nil
}

func (s *Store) ListPosts(_ context.Context, page storage.Page) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var live []models.Post
	for _, id := range s.postOrder {
		if p := s.posts[id]; p.DeletedAt == nil {
			out := copyPost(*p)
			out.Comments = nil
			live = append(live, out)
		}
	}
	return window(live, page), nil
}

func (s *Store) UpdatePost(_ context.Context, id uuid.UUID, update storage.PostUpdate) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.livePost(id)
	if !ok {
		return models.Post{}, storage.ErrNotFound
	}
	setIf(&p.Title, update.Title)
	setIf(&p.Body, update.Body)
	setIf(&p.ImageURL, update.ImageURL)
	return copyPost(*p), nil
}

func (s *Store) SoftDeletePost(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.livePost(id)
	if !ok {
		return storage.ErrNotFound
	}
	at = at.UTC()
	p.DeletedAt = &at
	return nil
}

func (s *Store) ListComments(_ context.Context, postID uuid.UUID, page storage.Page) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.livePost(postID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return window(slices.Clone(p.Comments), page), nil
}

func (s *Store) FindComment(_ context.Context, postID, commentID uuid.UUID) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.livePost(postID)
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	c, ok := p.FindComment(commentID)
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) AddComment(_ context.Context, postID uuid.UUID, comment models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.livePost(postID)
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	p.Comments = append(p.Comments, comment)
	return comment, nil
}

func (s *Store) UpdateComment(_ context.Context, postID, commentID uuid.UUID, update storage.CommentUpdate) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.livePost(postID)
	if !ok {
		return models.Comment{}, storage.ErrNotFound
	}
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			setIf(&p.Comments[i].Body, update.Body)
			setIf(&p.Comments[i].Disabled, update.Disabled)
			return p.Comments[i], nil
		}
	}
	return models.Comment{}, storage.ErrNotFound
}

func (s *Store) RemoveComment(_ context.Context, postID, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.livePost(postID)
	if !ok {
		return storage.ErrNotFound
	}
	before := len(p.Comments)
	p.Comments = slices.DeleteFunc(p.Comments, func(c models.Comment) bool { return c.ID == commentID })
	if len(p.Comments) == before {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) liveUser(id uuid.UUID) (*models.User, bool) {
	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, false
	}
	return u, true
}

func (s *Store) livePost(id uuid.UUID) (*models.Post, bool) {
	p, ok := s.posts[id]
	if !ok || p.DeletedAt != nil {
		return nil, false
	}
	return p, true
}

func window[T any](items []T, page storage.Page) []T {
	if page.Limit <= 0 || page.Offset < 0 || page.Offset >= len(items) {
		return []T{}
	}
	end := min(page.Offset+page.Limit, len(items))
	return items[page.Offset:end]
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func copyUser(u models.User) models.User {
	u.Roles = slices.Clone(u.Roles)
	u.Followers = slices.Clone(u.Followers)
	u.Followings = slices.Clone(u.Followings)
	if u.DeletedAt != nil {
		at := *u.DeletedAt
		u.DeletedAt = &at
	}
	return u
}

func copyPost(p models.Post) models.Post {
	p.Comments = slices.Clone(p.Comments)
	if p.DeletedAt != nil {
		at := *p.DeletedAt
		p.DeletedAt = &at
	}
	return p
}
