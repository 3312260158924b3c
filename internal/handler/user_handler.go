package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/service"
)

// GetUser 返回作者的公开资料。
func (a *API) GetUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := a.auth.User(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// GetUserPosts 返回作者已发布的文章。
func (a *API) GetUserPosts(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if _, err := a.auth.User(id); err != nil {
		respondServiceError(c, err, "Failed to fetch user")
		return
	}

	posts, err := a.posts.ListPublished(service.PostFilter{AuthorID: id})
	if err != nil {
		respondServiceError(c, err, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}
