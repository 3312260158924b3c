package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

// DefaultGeminiModel 是 Gemini 平台的默认模型。
const DefaultGeminiModel = "gemini-2.5-flash"

// geminiCompleter 通过 genai SDK 调用 Gemini API，客户端在首次调用时创建。
type geminiCompleter struct {
	apiKey  string
	model   string
	timeout time.Duration

	once    sync.Once
	client  *genai.Client
	initErr error
}

func newGeminiCompleter(apiKey, model string, timeout time.Duration) *geminiCompleter {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultGeminiModel
	}
	return &geminiCompleter{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		timeout: timeout,
	}
}

func (g *geminiCompleter) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		g.client, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     g.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: g.timeout},
		})
		if g.initErr != nil {
			g.initErr = fmt.Errorf("failed to create gemini client: %w", g.initErr)
		}
	})
	return g.client, g.initErr
}

func (g *geminiCompleter) complete(ctx context.Context, req aiChatRequest) (aiChatResponse, error) {
	if g.apiKey == "" {
		return aiChatResponse{}, ErrAIAPIKeyMissing
	}

	client, err := g.ensureClient(ctx)
	if err != nil {
		return aiChatResponse{}, err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if system := strings.TrimSpace(req.SystemPrompt); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), config)
	if err != nil {
		return aiChatResponse{}, fmt.Errorf("gemini API request failed: %w", err)
	}

	result := aiChatResponse{Content: strings.TrimSpace(resp.Text())}
	if usage := resp.UsageMetadata; usage != nil {
		result.PromptTokens = int(usage.PromptTokenCount)
		result.CompletionTokens = int(usage.CandidatesTokenCount)
	}
	return result, nil
}
