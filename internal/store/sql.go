package store

import (
	"errors"

	"github.com/writespace/internal/db"
	"github.com/writespace/internal/model"
	"gorm.io/gorm"
)

// SQLStore 基于 gorm 的仓储实现，行为与 MemoryStore 保持一致。
type SQLStore struct {
	db  *gorm.DB
	now Clock
}

var _ Repository = (*SQLStore)(nil)

// NewSQLStore creates a SQLStore over an already migrated connection.
func NewSQLStore(gdb *gorm.DB) *SQLStore {
	return &SQLStore{db: gdb, now: defaultClock}
}

// WithClock 替换时间来源，主要用于测试。
func (s *SQLStore) WithClock(clock Clock) *SQLStore {
	if clock != nil {
		s.now = clock
	}
	return s
}

func (s *SQLStore) CreateUser(input model.InsertUser) (*model.User, error) {
	row := db.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.Password,
		CreatedAt:    s.now(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	user := row.ToModel()
	return &user, nil
}

func (s *SQLStore) GetUser(id uint) (*model.User, error) {
	var row db.User
	if err := s.db.First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	user := row.ToModel()
	return &user, nil
}

func (s *SQLStore) GetUserByEmail(email string) (*model.User, error) {
	var row db.User
	if err := s.db.Where("email = ?", email).Order("id asc").First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	user := row.ToModel()
	return &user, nil
}

func (s *SQLStore) CreatePost(input model.InsertPost) (*model.Post, error) {
	status, err := normalizeStatus(input.Status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := model.Post{
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

	row := db.PostFromModel(post)
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	created := row.ToModel()
	return &created, nil
}

func (s *SQLStore) GetPost(id uint) (*model.Post, error) {
	var row db.Post
	if err := s.db.First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	post := row.ToModel()
	return &post, nil
}

func (s *SQLStore) GetAllPosts() ([]model.Post, error) {
	return s.listPosts(s.db)
}

func (s *SQLStore) GetPostsByAuthor(authorID uint) ([]model.Post, error) {
	return s.listPosts(s.db.Where("author_id = ?", authorID))
}

func (s *SQLStore) listPosts(query *gorm.DB) ([]model.Post, error) {
	var rows []db.Post
	if err := query.Order("created_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.ToModel())
	}
	// sqlite 以文本比较时间，这里再按内存实现的规则稳定排序一次。
	sortNewestFirst(posts)
	return posts, nil
}

func (s *SQLStore) UpdatePost(id uint, patch model.PostPatch) (*model.Post, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var updated model.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var row db.Post
		if err := tx.First(&row, id).Error; err != nil {
			return translateError(err)
		}

		updated = row.ToModel()
		patch.Apply(&updated, s.now())

		// 浏览量只通过 IncrementViews 修改
		next := db.PostFromModel(updated)
		return tx.Omit("views").Save(&next).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *SQLStore) DeletePost(id uint) (bool, error) {
	result := s.db.Delete(&db.Post{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *SQLStore) IncrementViews(id uint) error {
	return s.db.Model(&db.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
