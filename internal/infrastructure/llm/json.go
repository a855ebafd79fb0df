package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a completion holds no JSON value of the
// requested shape
var ErrNoJSON = errors.New("llm: no JSON found in completion")

// ExtractJSONObject decodes the first JSON object in content into v
func ExtractJSONObject(content string, v any) error {
	return extractJSON(content, '{', '}', v)
}

// ExtractJSONArray decodes the first JSON array in content into v
func ExtractJSONArray(content string, v any) error {
	return extractJSON(content, '[', ']', v)
}

// extractJSON strips markdown fences and surrounding prose, then decodes.
// A failed decode is retried with control characters removed, and then
// with raw newlines and tabs inside string literals escaped.
func extractJSON(content string, open, closing byte, v any) error {
	body := StripCodeFence(content)

	start := strings.IndexByte(body, open)
	end := strings.LastIndexByte(body, closing)
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	body = body[start : end+1]

	firstErr := json.Unmarshal([]byte(body), v)
	if firstErr == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(stripControlChars(body)), v); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(escapeRawInStrings(body)), v); err == nil {
		return nil
	}
	return fmt.Errorf("llm: decode JSON: %w", firstErr)
}

// StripCodeFence removes a surrounding ``` or ```json fence
func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// stripControlChars drops C0 controls other than tab, LF and CR, plus DEL
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

// escapeRawInStrings escapes control characters that appear unescaped
// inside JSON string literals
func escapeRawInStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}
		switch {
		case escaped:
			escaped = false
			b.WriteByte(c)
		case c == '\\':
			escaped = true
			b.WriteByte(c)
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c == 0x7f:
			// dropped
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
