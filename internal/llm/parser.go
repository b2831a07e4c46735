package llm

import (
	"encoding/json"
	"strings"

	"github.com/dumbgoos/WEB2PG/internal/logger"
	"github.com/dumbgoos/WEB2PG/pkg/models"
)

// Fixed schema keys. Everything else the model produced is preserved
// opaquely under entities instead of being dropped.
var normalizedKeys = map[string]bool{
	"tags":         true,
	"actors":       true,
	"categories":   true,
	"keywords":     true,
	"summary":      true,
	"language":     true,
	"content_type": true,
	"entities":     true,
}

// ParseAnalysis extracts the first well-formed JSON object from free-form
// model output and normalizes it onto the fixed analysis schema. It never
// fails: prose without JSON, invalid JSON, or a missing payload all yield
// the all-defaults result.
func ParseAnalysis(raw string) models.AnalysisResult {
	candidate, ok := extractJSONObject(raw)
	if !ok {
		logger.WithField("response_length", len(raw)).Warn("No JSON object found in LLM response")
		return models.EmptyAnalysisResult()
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		logger.WithError(err).Warn("Failed to parse LLM JSON response")
		return models.EmptyAnalysisResult()
	}

	return normalizeAnalysis(data)
}

// extractJSONObject locates the first balanced, decodable JSON object in s.
// The model frequently wraps its answer in prose or code fences; a
// balanced-brace scan (string and escape aware) avoids capturing unrelated
// braces the way a naive first-to-last match would.
func extractJSONObject(s string) (string, bool) {
	for offset := 0; offset < len(s); {
		start := strings.IndexByte(s[offset:], '{')
		if start < 0 {
			return "", false
		}
		start += offset

		if end, ok := scanBalanced(s, start); ok {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, true
			}
			// Balanced but not valid JSON, keep scanning past this brace.
		}
		offset = start + 1
	}
	return "", false
}

// scanBalanced returns the index of the brace closing the object opened at
// start, skipping braces inside string literals.
func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// normalizeAnalysis maps decoded JSON onto the fixed schema. Every key in
// the result is always set; type-appropriate defaults fill any gap.
// Entity-specific fields outside the fixed schema (entity_type, title,
// cast, director, brand, price, ...) pass through under entities.
func normalizeAnalysis(data map[string]interface{}) models.AnalysisResult {
	result := models.EmptyAnalysisResult()

	result.Tags = toStringSlice(data["tags"])
	result.Actors = toStringSlice(data["actors"])
	result.Categories = toStringSlice(data["categories"])
	result.Keywords = toStringSlice(data["keywords"])

	if s, ok := data["summary"].(string); ok {
		result.Summary = s
	}
	if s, ok := data["language"].(string); ok && s != "" {
		result.Language = s
	}
	if s, ok := data["content_type"].(string); ok && s != "" {
		result.ContentType = s
	}

	if m, ok := data["entities"].(map[string]interface{}); ok {
		for k, v := range m {
			result.Entities[k] = v
		}
	}
	for k, v := range data {
		if !normalizedKeys[k] {
			result.Entities[k] = v
		}
	}

	return result
}

// toStringSlice coerces a decoded JSON value into a string slice,
// dropping non-string elements. Always returns a non-nil slice.
func toStringSlice(v interface{}) []string {
	out := []string{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
