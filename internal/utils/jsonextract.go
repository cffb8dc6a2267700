package utils

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when no parseable JSON value is found in the text.
var ErrNoJSON = errors.New("no JSON value found in text")

// FirstJSON extracts the first complete JSON object or array embedded in
// free-form text. Providers wrap structured output in prose or markdown
// fences, so callers parse leniently instead of trusting the whole body.
func FirstJSON(text string) (string, error) {
	for i := 0; i < len(text); i++ {
		open := text[i]
		if open != '{' && open != '[' {
			continue
		}
		if end, ok := matchBracket(text, i); ok {
			candidate := text[i : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
	}
	return "", ErrNoJSON
}

// UnmarshalFirstJSON extracts the first JSON value and decodes it into v.
func UnmarshalFirstJSON(text string, v any) error {
	raw, err := FirstJSON(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

// StripCodeFences removes a surrounding markdown code fence if present.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line.
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// matchBracket scans from the opening bracket at start and returns the index
// of its matching close, honoring string literals and escapes.
func matchBracket(text string, start int) (int, bool) {
	open := text[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
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
				return i, true
			}
		}
	}
	return 0, false
}
