package db

import (
	"time"

	"github.com/writespace/internal/model"
)

// Post 是文章表的行结构，时间戳由仓储显式写入。
type Post struct {
	ID          uint       `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"not null"`
	Excerpt     *string    `gorm:"type:text"`
	Content     string     `gorm:"type:text;not null"`
	Category    string     `gorm:"size:64;index"`
	Tags        []string   `gorm:"serializer:json"`
	AuthorID    uint       `gorm:"index"`
	Status      string     `gorm:"size:16;index;not null;default:draft"`
	Views       int        `gorm:"not null;default:0"`
	PublishedAt *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false;index"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false"`
}

// ToModel 转换为领域模型。
func (p Post) ToModel() model.Post {
	post := model.Post{
		ID:          p.ID,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Category:    p.Category,
		Tags:        p.Tags,
		AuthorID:    p.AuthorID,
		Status:      model.Status(p.Status),
		Views:       p.Views,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	return post.Clone()
}

// PostFromModel 将领域模型转换为行结构。
func PostFromModel(p model.Post) Post {
	clone := p.Clone()
	return Post{
		ID:          clone.ID,
		Title:       clone.Title,
		Excerpt:     clone.Excerpt,
		Content:     clone.Content,
		Category:    clone.Category,
		Tags:        clone.Tags,
		AuthorID:    clone.AuthorID,
		Status:      string(clone.Status),
		Views:       clone.Views,
		PublishedAt: clone.PublishedAt,
		CreatedAt:   clone.CreatedAt,
		UpdatedAt:   clone.UpdatedAt,
	}
}
