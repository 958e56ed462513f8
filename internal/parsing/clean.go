package parsing

import "strings"

// cleanJSONBlock removes markdown fences around provider output
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```"); idx >= 0 {
		start := idx + 3
		// skip a language tag such as ```json
		if nl := strings.IndexAny(text[start:], "\n{["); nl >= 0 && !strings.ContainsAny(text[start:start+nl], " \t") {
			if text[start+nl] == '\n' {
				start += nl + 1
			} else {
				start += nl
			}
		}
		if end := strings.Index(text[start:], "```"); end >= 0 {
			return strings.TrimSpace(text[start : start+end])
		}
		return strings.TrimSpace(text[start:])
	}
	return text
}

// extractJSONValue drops any preamble and returns the first object or list.
// An unterminated value is returned up to the end of the text so repair can close it.
func extractJSONValue(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return strings.TrimSpace(text[start:]), true
}
