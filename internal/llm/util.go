// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock strips the wrappers models put around JSON even when told not
// to: markdown code fences, leading prose and trailing prose. It returns the
// first balanced JSON object or array found in the text. When no balanced JSON
// is present the trimmed input is returned unchanged, so the caller's strict
// parse still fails on it.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	var fallback string
	for i := 0; i < len(text); i++ {
		var candidate string
		switch text[i] {
		case '{':
			candidate = extractJSONObject(text[i:])
		case '[':
			candidate = extractJSONArray(text[i:])
		default:
			continue
		}
		if candidate == "" {
			continue
		}
		// Prose may contain bracketed words like "[note]" before the payload.
		if json.Valid([]byte(candidate)) {
			return candidate
		}
		if fallback == "" {
			fallback = candidate
		}
	}

	if fallback != "" {
		return fallback
	}
	return text
}

// stripCodeFence removes a surrounding ``` or ```lang fence.
func stripCodeFence(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}
	// A fence after the payload starts is content, not a wrapper.
	if brace := strings.IndexAny(text, "{["); brace >= 0 && brace < start {
		return text
	}
	body := text[start+3:]

	// Skip a language identifier on the fence line
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
			body = body[idx+1:]
		}
	} else {
		body = strings.TrimPrefix(body, "json")
	}

	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// extractJSONObject returns the balanced object at the start of text, or "".
func extractJSONObject(text string) string {
	if !strings.HasPrefix(text, "{") {
		return ""
	}
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced array at the start of text, or "".
func extractJSONArray(text string) string {
	if !strings.HasPrefix(text, "[") {
		return ""
	}
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans from the opening delimiter at text[0] to its matching
// close, ignoring delimiters inside JSON strings. Truncated input yields "".
func extractBalanced(text string, open, close byte) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
