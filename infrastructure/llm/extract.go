package llm

import (
	"encoding/json"
	"strings"
)

// ExtractFirstJSONObject returns the first balanced, valid JSON object embedded in text.
// Anything around the object is ignored, including prose and markdown code fences.
// Candidates that do not balance or do not parse are skipped in favour of the next '{'.
func ExtractFirstJSONObject(text string) (json.RawMessage, bool) {
	for offset := 0; offset < len(text); {
		idx := strings.IndexByte(text[offset:], '{')
		if idx < 0 {
			return nil, false
		}
		start := offset + idx

		if end, ok := matchObject(text, start); ok {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), true
			}
		}
		offset = start + 1
	}
	return nil, false
}

// matchObject finds the index of the brace closing the object opened at start
func matchObject(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if escaped {
			escaped = false
			continue
		}

		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				if ch != '}' {
					return 0, false
				}
				return i, true
			}
			if depth < 0 {
				return 0, false
			}
		}
	}
	return 0, false
}
