package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/writespace/internal/model"
	"github.com/writespace/internal/store"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrAuthorNotFound   = errors.New("author not found")
	ErrForbidden        = errors.New("post belongs to another author")
	ErrTitleRequired    = errors.New("title is required")
	ErrContentRequired  = errors.New("content is required")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidStatus    = errors.New("status must be draft or published")
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// PostService wraps post lifecycle rules on top of the repository.
type PostService struct {
	repo store.Repository
}

// PostFilter describes filters for listing published posts.
// 空值与 "all" 均表示不过滤；Sort 为空时保持仓储顺序。
type PostFilter struct {
	Search   string
	Category string
	AuthorID uint
	Sort     string
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	Title    string
	Excerpt  string
	Content  string
	Category string
	Tags     []string
	Status   model.Status
}

// PostUpdateInput 表示部分更新，nil 字段保持不变。
type PostUpdateInput struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Category *string
	Tags     []string
	HasTags  bool
	Status   *model.Status
}

// AuthorStats 汇总作者面板上的计数。
type AuthorStats struct {
	Total      int `json:"total"`
	Published  int `json:"published"`
	Drafts     int `json:"drafts"`
	TotalViews int `json:"totalViews"`
}

// NewPostService creates a PostService instance.
func NewPostService(repo store.Repository) *PostService {
	return &PostService{repo: repo}
}

// ListPublished 返回已发布文章，并按过滤条件筛选排序。
func (s *PostService) ListPublished(filter PostFilter) ([]model.Post, error) {
	all, err := s.repo.GetAllPosts()
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.TrimSpace(filter.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	posts := make([]model.Post, 0, len(all))
	for _, post := range all {
		if !post.IsPublished() {
			continue
		}
		if category != "" && post.Category != category {
			continue
		}
		if filter.AuthorID != 0 && post.AuthorID != filter.AuthorID {
			continue
		}
		if search != "" && !matchesSearch(post, search) {
			continue
		}
		posts = append(posts, post)
	}

	sortPosts(posts, strings.ToLower(strings.TrimSpace(filter.Sort)))
	return posts, nil
}

// Categories 返回已发布文章中出现过的分类，按首次出现的顺序。
func (s *PostService) Categories() ([]string, error) {
	posts, err := s.ListPublished(PostFilter{})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(model.Categories))
	for _, post := range posts {
		if post.Category == "" || slices.Contains(categories, post.Category) {
			continue
		}
		categories = append(categories, post.Category)
	}
	return categories, nil
}

// Get fetches a post by id regardless of status.
func (s *PostService) Get(id uint) (*model.Post, error) {
	post, err := s.repo.GetPost(id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return post, nil
}

// View 读取文章详情；已发布的文章会累计一次浏览量，返回值包含累计后的计数。
func (s *PostService) View(id uint) (*model.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return post, nil
	}

	if err := s.repo.IncrementViews(id); err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	return s.Get(id)
}

// ListByAuthor 返回作者自己的文章，status 为空或 all 时包含全部状态。
func (s *PostService) ListByAuthor(authorID uint, status string) ([]model.Post, error) {
	posts, err := s.repo.GetPostsByAuthor(authorID)
	if err != nil {
		return nil, err
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return posts, nil
	}
	if !model.Status(status).Valid() {
		return nil, ErrInvalidStatus
	}

	filtered := posts[:0]
	for _, post := range posts {
		if post.Status == model.Status(status) {
			filtered = append(filtered, post)
		}
	}
	return filtered, nil
}

// Stats 计算作者面板的统计数据。
func (s *PostService) Stats(authorID uint) (AuthorStats, error) {
	posts, err := s.repo.GetPostsByAuthor(authorID)
	if err != nil {
		return AuthorStats{}, err
	}

	stats := AuthorStats{Total: len(posts)}
	for _, post := range posts {
		switch post.Status {
		case model.StatusPublished:
			stats.Published++
		case model.StatusDraft:
			stats.Drafts++
		}
		stats.TotalViews += post.Views
	}
	return stats, nil
}

// Create 校验输入并以 authorID 作为作者创建文章。
func (s *PostService) Create(authorID uint, input PostInput) (*model.Post, error) {
	if _, err := s.repo.GetUser(authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.StatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		if status == model.StatusPublished {
			return nil, ErrCategoryRequired
		}
		category = model.DefaultCategory
	}

	post, err := s.repo.CreatePost(model.InsertPost{
		Title:    title,
		Excerpt:  optionalString(input.Excerpt),
		Content:  content,
		Category: category,
		Tags:     normalizeTags(input.Tags),
		AuthorID: authorID,
		Status:   status,
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return post, nil
}

// Update applies a partial update to a post owned by actorID.
func (s *PostService) Update(actorID, id uint, input PostUpdateInput) (*model.Post, error) {
	if _, err := s.ownedPost(actorID, id); err != nil {
		return nil, err
	}

	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.UpdatePost(id, patch)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return post, nil
}

// Publish 将文章切换为已发布，首次发布时记录 publishedAt。
func (s *PostService) Publish(actorID, id uint) (*model.Post, error) {
	status := model.StatusPublished
	return s.Update(actorID, id, PostUpdateInput{Status: &status})
}

// Unpublish 将文章切回草稿，publishedAt 保持不变。
func (s *PostService) Unpublish(actorID, id uint) (*model.Post, error) {
	status := model.StatusDraft
	return s.Update(actorID, id, PostUpdateInput{Status: &status})
}

// Delete removes a post owned by actorID.
func (s *PostService) Delete(actorID, id uint) error {
	if _, err := s.ownedPost(actorID, id); err != nil {
		return err
	}

	deleted, err := s.repo.DeletePost(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}
	return nil
}

func (s *PostService) ownedPost(actorID, id uint) (*model.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return post, nil
}

func buildPatch(input PostUpdateInput) (model.PostPatch, error) {
	var patch model.PostPatch

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return patch, ErrTitleRequired
		}
		patch.Title = &title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return patch, ErrContentRequired
		}
		patch.Content = &content
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return patch, ErrCategoryRequired
		}
		patch.Category = &category
	}
	if input.Excerpt != nil {
		excerpt := strings.TrimSpace(*input.Excerpt)
		patch.Excerpt = &excerpt
	}
	if input.HasTags {
		tags := normalizeTags(input.Tags)
		patch.Tags = &tags
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return patch, ErrInvalidStatus
		}
		status := *input.Status
		patch.Status = &status
	}
	return patch, nil
}

func matchesSearch(post model.Post, needle string) bool {
	if strings.Contains(strings.ToLower(post.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(post.Content), needle) {
		return true
	}
	return post.Excerpt != nil && strings.Contains(strings.ToLower(*post.Excerpt), needle)
}

// sortPosts 实现首页的排序选项；newest/oldest 优先使用发布时间。
func sortPosts(posts []model.Post, mode string) {
	switch mode {
	case "":
		return
	case SortPopular:
		slices.SortStableFunc(posts, func(a, b model.Post) int {
			return b.Views - a.Views
		})
	case SortOldest:
		slices.SortStableFunc(posts, func(a, b model.Post) int {
			return displayTime(a).Compare(displayTime(b))
		})
	default:
		slices.SortStableFunc(posts, func(a, b model.Post) int {
			return displayTime(b).Compare(displayTime(a))
		})
	}
}

func displayTime(post model.Post) time.Time {
	if post.PublishedAt != nil {
		return *post.PublishedAt
	}
	return post.CreatedAt
}

// normalizeTags 去掉空白标签，保留顺序与重复项。
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func translateStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrPostNotFound
	case errors.Is(err, store.ErrInvalidStatus):
		return ErrInvalidStatus
	default:
		return err
	}
}
