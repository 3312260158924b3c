package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type fakeHTTPClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func completionResponse(t *testing.T, status int, content string) *http.Response {
	t.Helper()
	response := chatCompletionResponse{
		Choices: []struct {
			Message chatMessage "json:\"message\""
		}{{Message: chatMessage{Role: "assistant", Content: content}}},
	}
	buf, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader(buf)),
		Header:     make(http.Header),
	}
}

func TestAISuggestionServiceSuggest(t *testing.T) {
	svc := NewAISuggestionService(AISettings{Provider: AIProviderOpenAI, OpenAIAPIKey: "sk-test"})
	svc.SetOpenAIBaseURL("https://openai.test/v1/")

	const payload = `{"suggestions":[{"type":"improvement","message":"Shorter intro","category":"structure"}],"overallScore":8,"summary":"Solid"}`
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.String() != "https://openai.test/v1/chat/completions" {
			t.Fatalf("unexpected url %s", r.URL)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header %s", got)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "gpt-4o" {
			t.Fatalf("unexpected model %s", req.Model)
		}
		if req.MaxTokens != 1000 {
			t.Fatalf("unexpected max tokens %d", req.MaxTokens)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Fatalf("expected json_object response format, got %+v", req.ResponseFormat)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages %+v", req.Messages)
		}
		user := req.Messages[1].Content
		if !strings.Contains(user, "Title: My Post") || !strings.Contains(user, "Content: Some words here") {
			t.Fatalf("prompt should carry title and content: %s", user)
		}
		return completionResponse(t, http.StatusOK, payload), nil
	}})

	raw, err := svc.Suggest(context.Background(), SuggestionInput{Title: "My Post", Content: "Some words here"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != payload {
		t.Fatalf("expected payload verbatim, got %s", raw)
	}
}

func TestAISuggestionServiceUntitledPrompt(t *testing.T) {
	prompt := buildSuggestionPrompt("  ", "body")
	if !strings.Contains(prompt, "Title: No title") {
		t.Fatalf("expected placeholder title, got %s", prompt)
	}
}

func TestAISuggestionServiceRejectsEmptyContent(t *testing.T) {
	svc := NewAISuggestionService(AISettings{OpenAIAPIKey: "sk-test"})
	svc.SetHTTPClient(fakeHTTPClient{})

	if _, err := svc.Suggest(context.Background(), SuggestionInput{Content: "   "}); !errors.Is(err, ErrSuggestionContentRequired) {
		t.Fatalf("expected ErrSuggestionContentRequired, got %v", err)
	}
}

func TestAISuggestionServiceFallbackOnEmptyOutput(t *testing.T) {
	svc := NewAISuggestionService(AISettings{Provider: AIProviderDeepSeek, DeepSeekAPIKey: "ds-key"})
	svc.SetDeepSeekBaseURL("https://deepseek.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.URL.Host != "deepseek.test" {
			t.Fatalf("unexpected host %s", r.URL.Host)
		}
		return completionResponse(t, http.StatusOK, ""), nil
	}})

	raw, err := svc.Suggest(context.Background(), SuggestionInput{Content: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Suggestions  []json.RawMessage `json:"suggestions"`
		OverallScore int               `json:"overallScore"`
		Summary      string            `json:"summary"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("fallback should be valid json: %v", err)
	}
	if len(decoded.Suggestions) != 0 || decoded.OverallScore != 7 || decoded.Summary != "No specific suggestions available." {
		t.Fatalf("unexpected fallback %+v", decoded)
	}
}

func TestAISuggestionServiceUpstreamError(t *testing.T) {
	svc := NewAISuggestionService(AISettings{OpenAIAPIKey: "sk-test"})
	svc.SetHTTPClient(fakeHTTPClient{handler: func(*http.Request) (*http.Response, error) {
		body := `{"error":{"message":"rate limited"}}`
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Status:     "429 Too Many Requests",
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	}})

	_, err := svc.Suggest(context.Background(), SuggestionInput{Content: "text"})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected upstream error message, got %v", err)
	}
}

func TestAISuggestionServiceMissingKey(t *testing.T) {
	svc := NewAISuggestionService(AISettings{})
	if svc.Configured() {
		t.Fatalf("service without key should not be configured")
	}
	if _, err := svc.Suggest(context.Background(), SuggestionInput{Content: "text"}); !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("expected ErrAIAPIKeyMissing, got %v", err)
	}
}

func TestParseSuggestionPayload(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: `{"summary":"ok"}`, want: `{"summary":"ok"}`},
		{name: "fenced", raw: "```json\n{\"summary\":\"ok\"}\n```", want: `{"summary":"ok"}`},
		{name: "bare fence", raw: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "not json", raw: "sorry, I cannot help", wantErr: true},
		{name: "array", raw: `[1,2]`, wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseSuggestionPayload(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidSuggestionResponse) {
				t.Fatalf("%s: expected ErrInvalidSuggestionResponse, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if string(got) != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
