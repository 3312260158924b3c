package store

import (
	"errors"
	"sort"
	"time"

	"github.com/writespace/internal/model"
)

var (
	// ErrNotFound 表示按 id 查找的记录不存在。
	ErrNotFound = errors.New("record not found")
	// ErrInvalidStatus 表示文章状态既不是 draft 也不是 published。
	ErrInvalidStatus = errors.New("invalid post status")
)

// Repository 是用户与文章记录的唯一持有者。
// 所有返回值都是副本，修改必须通过仓储方法完成。
type Repository interface {
	CreateUser(input model.InsertUser) (*model.User, error)
	GetUser(id uint) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)

	CreatePost(input model.InsertPost) (*model.Post, error)
	GetPost(id uint) (*model.Post, error)
	GetAllPosts() ([]model.Post, error)
	GetPostsByAuthor(authorID uint) ([]model.Post, error)
	UpdatePost(id uint, patch model.PostPatch) (*model.Post, error)
	DeletePost(id uint) (bool, error)
	IncrementViews(id uint) error
}

// Clock 返回当前时间，测试中可替换。
type Clock func() time.Time

func defaultClock() time.Time {
	return time.Now().UTC()
}

func normalizeStatus(status model.Status) (model.Status, error) {
	if status == "" {
		return model.StatusDraft, nil
	}
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func validatePatch(patch model.PostPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// sortNewestFirst 按 createdAt 倒序排列，时间相同则后插入的在前。
func sortNewestFirst(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}
