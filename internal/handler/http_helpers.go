package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// respondServiceError 将服务层错误映射为 HTTP 状态码，未知错误统一返回 500 并记录日志。
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, service.ErrAuthorNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "You can only modify your own posts")
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrContentRequired),
		errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrSignupFieldsRequired):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		logRequestError(c, fallback, err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func logRequestError(c *gin.Context, message string, err error) {
	log.Printf("[ERROR] %s request_id=%s: %v", message, RequestIDFrom(c), err)
}
