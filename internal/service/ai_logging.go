package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxAILogSnippetRunes = 512

// logAIExchange 输出 AI 请求与响应的摘要，过长的内容会被截断。
func logAIExchange(kind, phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[AI %s] %s: <empty>", kind, phase)
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	log.Printf("[AI %s] %s (runes=%d): %s", kind, phase, runeCount, truncateRunes(trimmed, maxAILogSnippetRunes))
}

func truncateRunes(input string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= limit {
		return input
	}
	return string([]rune(input)[:limit]) + "…(truncated)"
}
