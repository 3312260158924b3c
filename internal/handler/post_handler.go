package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/model"
	"github.com/writespace/internal/service"
)

type postCreateRequest struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
}

// postUpdateRequest 中缺省的字段保持原值。
type postUpdateRequest struct {
	Title    *string   `json:"title"`
	Excerpt  *string   `json:"excerpt"`
	Content  *string   `json:"content"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
}

// ListPosts 返回已发布的文章，支持 search/category/author/sort 查询参数。
func (a *API) ListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	if raw := strings.TrimSpace(c.Query("author")); raw != "" && raw != "all" {
		authorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid author id")
			return
		}
		filter.AuthorID = uint(authorID)
	}

	posts, err := a.posts.ListPublished(filter)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost 返回单篇文章；已发布的文章会累计一次浏览量。
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := a.posts.View(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetPostHTML 返回渲染后的正文与预计阅读时长，不累计浏览量。
func (a *API) GetPostHTML(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch post")
		return
	}

	html, err := a.renderer.RenderMarkdown(post.Content)
	if err != nil {
		respondServiceError(c, err, "Failed to render post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              post.ID,
		"title":           post.Title,
		"html":            html,
		"readTimeMinutes": service.ReadTimeMinutes(post.Content),
	})
}

// ListCategories 返回已发布文章用到的分类。
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.posts.Categories()
	if err != nil {
		respondServiceError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreatePost 以当前用户为作者创建文章。
func (a *API) CreatePost(c *gin.Context) {
	var req postCreateRequest
	if !bindJSON(c, &req, "Invalid post payload") {
		return
	}

	post, err := a.posts.Create(currentUserID(c), service.PostInput{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   model.Status(strings.ToLower(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost 部分更新当前用户的文章。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req postUpdateRequest
	if !bindJSON(c, &req, "Invalid post payload") {
		return
	}

	input := service.PostUpdateInput{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Category: req.Category,
	}
	if req.Tags != nil {
		input.Tags = *req.Tags
		input.HasTags = true
	}
	if req.Status != nil {
		status := model.Status(strings.ToLower(strings.TrimSpace(*req.Status)))
		input.Status = &status
	}

	post, err := a.posts.Update(currentUserID(c), id, input)
	if err != nil {
		respondServiceError(c, err, "Failed to update post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// PublishPost 发布文章。
func (a *API) PublishPost(c *gin.Context) {
	a.transition(c, a.posts.Publish)
}

// UnpublishPost 将文章撤回为草稿。
func (a *API) UnpublishPost(c *gin.Context) {
	a.transition(c, a.posts.Unpublish)
}

func (a *API) transition(c *gin.Context, apply func(actorID, id uint) (*model.Post, error)) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := apply(currentUserID(c), id)
	if err != nil {
		respondServiceError(c, err, "Failed to update post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost 删除当前用户的文章。
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := a.posts.Delete(currentUserID(c), id); err != nil {
		respondServiceError(c, err, "Failed to delete post")
		return
	}
	c.Status(http.StatusNoContent)
}

// MyPosts 返回当前用户的文章，可按 status 过滤。
func (a *API) MyPosts(c *gin.Context) {
	posts, err := a.posts.ListByAuthor(currentUserID(c), c.Query("status"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// MyStats 返回当前用户的文章统计。
func (a *API) MyStats(c *gin.Context) {
	stats, err := a.posts.Stats(currentUserID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
