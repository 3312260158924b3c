package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/service"
)

type suggestionRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

// AISuggestions 将正文交给 AI 平台分析，并原样返回其 JSON 结果。
// 模型返回合法 JSON 但不是对象（例如数组）时视为生成失败，按 500 返回，
// 客户端因此总能拿到 {suggestions, overallScore, summary} 形状的对象。
func (a *API) AISuggestions(c *gin.Context) {
	var req suggestionRequest
	if !bindJSON(c, &req, "Invalid request body") {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}
	if a.suggestions == nil {
		respondError(c, http.StatusInternalServerError, "AI suggestions are not available")
		return
	}

	payload, err := a.suggestions.Suggest(c.Request.Context(), service.SuggestionInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, service.ErrSuggestionContentRequired) {
			respondError(c, http.StatusBadRequest, "Content is required")
			return
		}
		log.Printf("[AI SUGGEST] request_id=%s failed: %v", RequestIDFrom(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate AI suggestions",
			"message": err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
