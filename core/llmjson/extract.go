// Package llmjson extracts a JSON object from free-form LLM output.
//
// The Architect that produces ArchSpec JSON is an out-of-scope external
// collaborator — only the contract it must emit matters here: an object
// with name/provider/region/components[]/connections[], often wrapped in
// prose or a markdown code fence. Extract recovers the JSON payload with
// a hand-written scanner rather than a regex, since braces can appear
// inside quoted strings and escaped quotes must not terminate a string
// early.
package llmjson

import (
	"strings"

	cwerrors "cloudwright/internal/errors"
)

// Extract strips markdown code fences and returns the first balanced
// JSON object found in text. It tracks string/escape state so that
// braces and quotes inside string literals don't confuse the brace
// counter.
func Extract(text string) (string, error) {
	text = stripFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", cwerrors.Spec("no JSON object found in input")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", cwerrors.Spec("unbalanced JSON object in input")
}

// stripFences removes a leading/trailing ```json or ``` fence, if present.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return text
	}
	// Drop the opening fence line (``` or ```json).
	lines = lines[1:]
	// Drop a trailing fence line if present.
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			lines = lines[:i]
			break
		}
	}
	return strings.Join(lines, "\n")
}
