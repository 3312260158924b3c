package store

import (
	"sync"

	"github.com/writespace/internal/model"
)

// MemoryStore 是进程内的仓储实现，重启后数据丢失。
// 一把读写锁同时保护两个集合及其自增计数器。
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[uint]model.User
	posts      map[uint]model.Post
	nextUserID uint
	nextPostID uint
	now        Clock
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore 创建空的内存仓储，id 从 1 开始。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]model.User),
		posts:      make(map[uint]model.Post),
		nextUserID: 1,
		nextPostID: 1,
		now:        defaultClock,
	}
}

// WithClock 替换时间来源，主要用于测试。
func (s *MemoryStore) WithClock(clock Clock) *MemoryStore {
	if clock == nil {
		return s
	}
	s.mu.Lock()
	s.now = clock
	s.mu.Unlock()
	return s
}

func (s *MemoryStore) CreateUser(input model.InsertUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := model.User{
		ID:        s.nextUserID,
		Name:      input.Name,
		Email:     input.Email,
		Password:  input.Password,
		CreatedAt: s.now(),
	}
	s.nextUserID++
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryStore) GetUser(id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// GetUserByEmail 线性扫描，存在重复邮箱时返回 id 最小的用户。
func (s *MemoryStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *model.User
	for id := range s.users {
		user := s.users[id]
		if user.Email != email {
			continue
		}
		if found == nil || user.ID < found.ID {
			found = &user
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (s *MemoryStore) CreatePost(input model.InsertPost) (*model.Post, error) {
	status, err := normalizeStatus(input.Status)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	post := model.Post{
		ID:        s.nextPostID,
		Title:     input.Title,
		Excerpt:   input.Excerpt,
		Content:   input.Content,
		Category:  input.Category,
		Tags:      input.Tags,
		AuthorID:  input.AuthorID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == model.StatusPublished {
		publishedAt := now
		post.PublishedAt = &publishedAt
	}
	post = post.Clone()

	s.nextPostID++
	s.posts[post.ID] = post

	out := post.Clone()
	return &out, nil
}

func (s *MemoryStore) GetPost(id uint) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := post.Clone()
	return &out, nil
}

func (s *MemoryStore) GetAllPosts() ([]model.Post, error) {
	return s.collectPosts(func(model.Post) bool { return true }), nil
}

func (s *MemoryStore) GetPostsByAuthor(authorID uint) ([]model.Post, error) {
	return s.collectPosts(func(p model.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *MemoryStore) collectPosts(keep func(model.Post) bool) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if keep(post) {
			posts = append(posts, post.Clone())
		}
	}
	sortNewestFirst(posts)
	return posts
}

func (s *MemoryStore) UpdatePost(id uint, patch model.PostPatch) (*model.Post, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated := existing.Clone()
	patch.Apply(&updated, s.now())
	s.posts[id] = updated

	out := updated.Clone()
	return &out, nil
}

func (s *MemoryStore) DeletePost(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return false, nil
	}
	delete(s.posts, id)
	return true, nil
}

func (s *MemoryStore) IncrementViews(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil
	}
	post.Views++
	s.posts[id] = post
	return nil
}
