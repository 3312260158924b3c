package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSuggestionContentRequired 表示请求缺少正文。
	ErrSuggestionContentRequired = errors.New("content is required")
	// ErrInvalidSuggestionResponse 表示模型返回的内容不是 JSON 对象。
	ErrInvalidSuggestionResponse = errors.New("AI returned an invalid suggestion payload")
)

// SuggestionInput 描述一次写作建议请求。
type SuggestionInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SuggestionGenerator 定义写作建议能力，便于在 handler 中替换实现。
type SuggestionGenerator interface {
	Suggest(ctx context.Context, input SuggestionInput) (json.RawMessage, error)
}

const (
	defaultSuggestionMaxTokens   = 1000
	defaultSuggestionTemperature = 0.7
	fallbackSuggestionJSON       = `{"suggestions":[],"overallScore":7,"summary":"No specific suggestions available."}`

	suggestionSystemPrompt = "You are an expert writing assistant that provides helpful, constructive feedback to improve blog posts. Focus on clarity, engagement, structure, and readability."
)

// AISuggestionService 调用大模型为文章生成写作建议，并原样返回其 JSON。
type AISuggestionService struct {
	client *aiChatClient
}

// NewAISuggestionService 根据配置构造服务。
func NewAISuggestionService(settings AISettings) *AISuggestionService {
	return &AISuggestionService{client: newAIChatClient(settings)}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AISuggestionService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AISuggestionService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AISuggestionService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// Provider 返回当前使用的平台。
func (s *AISuggestionService) Provider() string {
	return s.client.Provider()
}

// Configured 判断当前平台是否配置了 API Key。
func (s *AISuggestionService) Configured() bool {
	return s.client.Configured()
}

// Suggest 生成写作建议；模型没有输出时返回默认结果。
func (s *AISuggestionService) Suggest(ctx context.Context, input SuggestionInput) (json.RawMessage, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrSuggestionContentRequired
	}

	userPrompt := buildSuggestionPrompt(input.Title, input.Content)
	logAIExchange("SUGGEST", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: suggestionSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    defaultSuggestionMaxTokens,
		Temperature:  defaultSuggestionTemperature,
		JSONOutput:   true,
	})
	if err != nil {
		return nil, err
	}
	logAIExchange("SUGGEST", "response", result.Content)

	return parseSuggestionPayload(result.Content)
}

func buildSuggestionPrompt(title, content string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "No title"
	}

	var builder strings.Builder
	builder.WriteString("Please analyze the following blog post content and provide writing suggestions in JSON format. Return a JSON object with the following structure:\n")
	builder.WriteString(`{
  "suggestions": [
    {
      "type": "improvement",
      "message": "Specific suggestion text",
      "category": "grammar|style|structure|clarity|engagement"
    }
  ],
  "overallScore": number between 1-10,
  "summary": "Brief overall assessment"
}`)
	builder.WriteString("\n\nContent to analyze:\nTitle: ")
	builder.WriteString(title)
	builder.WriteString("\nContent: ")
	builder.WriteString(content)
	return builder.String()
}

// parseSuggestionPayload 去掉可能存在的代码块标记，并确认结果是 JSON 对象。
func parseSuggestionPayload(raw string) (json.RawMessage, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return json.RawMessage(fallbackSuggestionJSON), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSuggestionResponse, err)
	}
	return json.RawMessage(cleaned), nil
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "json")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
