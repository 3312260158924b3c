package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// AIProviderOpenAI 表示使用 OpenAI 能力。
	AIProviderOpenAI = "openai"
	// AIProviderDeepSeek 表示使用 DeepSeek 能力。
	AIProviderDeepSeek = "deepseek"
	// AIProviderGemini 表示使用 Google Gemini 能力。
	AIProviderGemini = "gemini"

	defaultOpenAIModel   = "gpt-4o"
	defaultDeepSeekModel = "deepseek-chat"
	defaultAITimeout     = 180 * time.Second
)

// ErrAIAPIKeyMissing 表示未提供必需的 AI 平台 API Key。
var ErrAIAPIKeyMissing = errors.New("api key is required")

// AISettings 描述调用 AI 平台所需的配置，来源于环境变量。
type AISettings struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string
	GeminiAPIKey    string
	GeminiModel     string
	Timeout         time.Duration
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type aiChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
	JSONOutput   bool
}

type aiChatResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// chatCompleter 是单次补全调用的抽象，HTTP 与 Gemini SDK 各有一个实现。
type chatCompleter interface {
	complete(ctx context.Context, req aiChatRequest) (aiChatResponse, error)
}

type aiChatClient struct {
	settings AISettings
	http     httpDoer
	gemini   chatCompleter
}

func newAIChatClient(settings AISettings) *aiChatClient {
	settings.Provider = normalizeAIProvider(settings.Provider)
	if settings.Provider == "" {
		settings.Provider = AIProviderOpenAI
	}
	if strings.TrimSpace(settings.OpenAIBaseURL) == "" {
		settings.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(settings.DeepSeekBaseURL) == "" {
		settings.DeepSeekBaseURL = "https://api.deepseek.com/v1"
	}
	if strings.TrimSpace(settings.OpenAIModel) == "" {
		settings.OpenAIModel = defaultOpenAIModel
	}
	if strings.TrimSpace(settings.DeepSeekModel) == "" {
		settings.DeepSeekModel = defaultDeepSeekModel
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaultAITimeout
	}

	client := &aiChatClient{
		settings: settings,
		http:     &http.Client{Timeout: settings.Timeout},
	}
	client.gemini = newGeminiCompleter(settings.GeminiAPIKey, settings.GeminiModel, settings.Timeout)
	return client
}

func (c *aiChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: c.settings.Timeout}
		return
	}
	c.http = client
}

func (c *aiChatClient) SetOpenAIBaseURL(base string) {
	c.settings.OpenAIBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

func (c *aiChatClient) SetDeepSeekBaseURL(base string) {
	c.settings.DeepSeekBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// Provider 返回当前生效的平台名称。
func (c *aiChatClient) Provider() string {
	return c.settings.Provider
}

// Configured 判断当前平台是否配置了 API Key。
func (c *aiChatClient) Configured() bool {
	switch c.settings.Provider {
	case AIProviderDeepSeek:
		return strings.TrimSpace(c.settings.DeepSeekAPIKey) != ""
	case AIProviderGemini:
		return strings.TrimSpace(c.settings.GeminiAPIKey) != ""
	default:
		return strings.TrimSpace(c.settings.OpenAIAPIKey) != ""
	}
}

func (c *aiChatClient) call(ctx context.Context, req aiChatRequest) (aiChatResponse, error) {
	switch c.settings.Provider {
	case AIProviderGemini:
		return c.gemini.complete(ctx, req)
	case AIProviderDeepSeek:
		return c.callChatCompletions(ctx, "DeepSeek", c.settings.DeepSeekAPIKey, c.settings.DeepSeekBaseURL, c.settings.DeepSeekModel, req)
	default:
		return c.callChatCompletions(ctx, "OpenAI", c.settings.OpenAIAPIKey, c.settings.OpenAIBaseURL, c.settings.OpenAIModel, req)
	}
}

func (c *aiChatClient) callChatCompletions(ctx context.Context, label, apiKey, base, model string, req aiChatRequest) (aiChatResponse, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return aiChatResponse{}, ErrAIAPIKeyMissing
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	maxTokens := req.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	payload := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: strings.TrimSpace(req.SystemPrompt)},
			{Role: "user", Content: req.UserPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONOutput {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("build request: %w", err)
	}

	endpoint := strings.TrimRight(base, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("create %s request: %w", label, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "writespace-ai/1.0")

	resp, err := client.Do(httpReq)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("call %s: %w", label, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("read %s response: %w", label, err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return aiChatResponse{}, fmt.Errorf("%s returned %s", label, resp.Status)
		}
		return aiChatResponse{}, fmt.Errorf("decode %s response: %w", label, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = resp.Status
		}
		return aiChatResponse{}, fmt.Errorf("%s returned an error: %s", label, errMsg)
	}

	if len(completion.Choices) == 0 {
		return aiChatResponse{}, fmt.Errorf("%s returned no choices", label)
	}

	return aiChatResponse{
		Content:          strings.TrimSpace(completion.Choices[0].Message.Content),
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
	}, nil
}

func normalizeAIProvider(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case AIProviderOpenAI:
		return AIProviderOpenAI
	case AIProviderDeepSeek:
		return AIProviderDeepSeek
	case AIProviderGemini:
		return AIProviderGemini
	default:
		return ""
	}
}
