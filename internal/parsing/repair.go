package parsing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Repair applies the bounded set of syntax fixes to malformed JSON output.
// It collapses whitespace, quotes bare keys and scalar values, strips trailing
// separators and closes unbalanced braces. String contents are left untouched.
// The result is not guaranteed to parse.
func Repair(raw string) string {
	text := cleanJSONBlock(raw)
	if value, ok := extractJSONValue(text); ok {
		text = value
	}
	return balance(normalize(strings.TrimSpace(text)))
}

// normalize rewrites everything outside double-quoted strings in one pass.
// Inside an object a token ends at the colon in key position and at the next separator in value
// position, so times and URLs survive as one value.
func normalize(text string) string {
	out := make([]byte, 0, len(text)+16)

	var containers []byte
	keyPosition := false
	for i := 0; i < len(text); {
		c := text[i]
		switch c {
		case '"':
			end, _ := stringEnd(text, i)
			out = append(out, text[i:end]...)
			i = end
			continue
		case ' ', '\t', '\n', '\r':
			for i < len(text) && isSpace(text[i]) {
				i++
			}
			if len(out) > 0 && out[len(out)-1] != ' ' {
				out = append(out, ' ')
			}
			continue
		case '{', '[':
			containers = append(containers, c)
			keyPosition = c == '{'
		case '}', ']':
			out = trimSeparator(out)
			if len(containers) > 0 {
				containers = containers[:len(containers)-1]
			}
			keyPosition = false
		case ',':
			keyPosition = len(containers) > 0 && containers[len(containers)-1] == '{'
		case ':':
			keyPosition = false
		default:
			stops := "{}[],"
			if keyPosition {
				stops = "{}[],:"
			}
			end := i
			for end < len(text) && !strings.ContainsRune(stops, rune(text[end])) {
				end++
			}
			raw := text[i:end]
			token := strings.Join(strings.Fields(raw), " ")
			if keyPosition {
				out = append(out, key(token)...)
			} else {
				out = append(out, scalar(token)...)
			}
			if len(strings.TrimRight(raw, " \t\n\r")) < len(raw) {
				out = append(out, ' ')
			}
			i = end
			continue
		}
		out = append(out, c)
		i++
	}
	return string(out)
}

// stringEnd returns the index just past the string starting at text[start].
// An unterminated string runs to the end of text and reports false.
func stringEnd(text string, start int) (int, bool) {
	escaped := false
	for i := start + 1; i < len(text); i++ {
		switch {
		case escaped:
			escaped = false
		case text[i] == '\\':
			escaped = true
		case text[i] == '"':
			return i + 1, true
		}
	}
	return len(text), false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// trimSeparator drops a trailing comma so a closer can follow
func trimSeparator(out []byte) []byte {
	trimmed := bytes.TrimRight(out, " ")
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == ',' {
		return bytes.TrimRight(trimmed[:len(trimmed)-1], " ")
	}
	return out
}

func key(token string) string {
	if len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'' {
		token = token[1 : len(token)-1]
	}
	quoted, _ := json.Marshal(token)
	return string(quoted)
}

func scalar(token string) string {
	switch token {
	case "true", "false", "null":
		return token
	case "True":
		return "true"
	case "False":
		return "false"
	case "None":
		return "null"
	}
	if _, err := strconv.ParseFloat(token, 64); err == nil && json.Valid([]byte(token)) {
		return token
	}
	if len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'' {
		token = token[1 : len(token)-1]
	}
	quoted, _ := json.Marshal(token)
	return string(quoted)
}

// balance closes an unterminated string and any open braces or brackets, and drops stray closers
func balance(text string) string {
	out := make([]byte, 0, len(text)+8)
	var stack []byte

	for i := 0; i < len(text); {
		c := text[i]
		switch c {
		case '"':
			end, closed := stringEnd(text, i)
			out = append(out, text[i:end]...)
			if !closed {
				out = append(out, '"')
			}
			i = end
			continue
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				i++
				continue
			}
			stack = stack[:len(stack)-1]
			out = trimSeparator(out)
		}
		out = append(out, c)
		i++
	}

	out = bytes.TrimRight(out, " ,")
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return string(out)
}
