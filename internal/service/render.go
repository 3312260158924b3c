package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const wordsPerMinute = 200

// Renderer 将 Markdown 正文转换为经过清洗的 HTML。
type Renderer struct {
	engine    goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer creates a Renderer with GFM extensions and the UGC sanitizing policy.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// RenderMarkdown 渲染正文，原始 HTML 与脚本会被 bluemonday 移除。
func (r *Renderer) RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// ReadTimeMinutes 按每分钟 200 词估算阅读时长，非空内容至少 1 分钟。
func ReadTimeMinutes(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
