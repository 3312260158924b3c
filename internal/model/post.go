package model

import (
	"slices"
	"time"
)

// Status 表示文章的发布状态。
type Status string

const (
	// StatusDraft 草稿，不出现在公开列表中。
	StatusDraft Status = "draft"
	// StatusPublished 已发布，可被公开浏览并累计浏览量。
	StatusPublished Status = "published"
)

// Valid 判断状态是否为 draft 或 published。
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Categories 为编辑器提供的固定分类，服务端不做强制校验。
var Categories = []string{"technology", "lifestyle", "business", "health", "travel"}

// DefaultCategory 保存草稿时未选择分类的回退值。
const DefaultCategory = "technology"

// Post 定义了文章模型
type Post struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Content     string     `json:"content"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	AuthorID    uint       `json:"authorId"`
	Status      Status     `json:"status"`
	Views       int        `json:"views"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsPublished 判断文章当前是否处于发布状态。
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// Clone 返回不与原记录共享切片和指针的副本。
func (p Post) Clone() Post {
	out := p
	out.Tags = slices.Clone(p.Tags)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if p.Excerpt != nil {
		excerpt := *p.Excerpt
		out.Excerpt = &excerpt
	}
	if p.PublishedAt != nil {
		publishedAt := *p.PublishedAt
		out.PublishedAt = &publishedAt
	}
	return out
}

// InsertPost 是创建文章时调用方可设置的字段。
type InsertPost struct {
	Title    string
	Excerpt  *string
	Content  string
	Category string
	Tags     []string
	AuthorID uint
	Status   Status
}

// PostPatch 列出更新时可修改的字段，nil 表示保持不变。
// Excerpt 指向空字符串时会清空摘要。publishedAt 不可通过补丁修改。
type PostPatch struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Category *string
	Tags     *[]string
	AuthorID *uint
	Status   *Status
}

// IsEmpty 判断补丁是否未携带任何字段。
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Excerpt == nil && p.Content == nil && p.Category == nil &&
		p.Tags == nil && p.AuthorID == nil && p.Status == nil
}

// Apply 将补丁逐字段合并到文章上，并按发布规则维护 publishedAt。
// 调用方负责在调用前校验 Status。
func (p PostPatch) Apply(post *Post, now time.Time) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Excerpt != nil {
		if *p.Excerpt == "" {
			post.Excerpt = nil
		} else {
			excerpt := *p.Excerpt
			post.Excerpt = &excerpt
		}
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Category != nil {
		post.Category = *p.Category
	}
	if p.Tags != nil {
		post.Tags = slices.Clone(*p.Tags)
		if post.Tags == nil {
			post.Tags = []string{}
		}
	}
	if p.AuthorID != nil {
		post.AuthorID = *p.AuthorID
	}
	if p.Status != nil {
		post.Status = *p.Status
		if *p.Status == StatusPublished && post.PublishedAt == nil {
			publishedAt := now
			post.PublishedAt = &publishedAt
		}
	}

	if now.Before(post.CreatedAt) {
		now = post.CreatedAt
	}
	post.UpdatedAt = now
}

// Ptr 返回值的指针，便于构造补丁。
func Ptr[T any](v T) *T {
	return &v
}
