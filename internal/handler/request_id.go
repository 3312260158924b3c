package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header carrying the request id.
const RequestIDHeader = "X-Request-ID"

const requestIDContextKey = "requestID"

// RequestID 为每个请求注入唯一 id；若客户端已携带 X-Request-ID 则沿用。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		c.Set(requestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestIDFrom 读取当前请求的 id，未经过中间件时返回空字符串。
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
