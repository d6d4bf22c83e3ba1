package llm

import (
	"encoding/json"
	"strings"
)

// decodeJSON parses s and accepts only container values (object or array).
// Bare scalars are rejected so that plain prose which happens to be quoted
// does not masquerade as a structured reply.
func decodeJSON(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	default:
		return nil, false
	}
}

// braceSpan returns the substring between the first '{' and the last '}',
// a heuristic to pull a JSON object out of mixed prose output.
func braceSpan(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// closeBraces appends the deficit of closing braces when the model truncated
// its output mid-object.
func closeBraces(s string) string {
	opens := strings.Count(s, "{")
	closes := strings.Count(s, "}")
	if opens > closes {
		return s + strings.Repeat("}", opens-closes)
	}
	return s
}
