package schema

import (
	"encoding/json"
	"strings"
)

// ExtractJSON reduces raw model output to its JSON payload. Reasoning blocks
// (<think>...</think>) and markdown code fences are removed. The candidates
// are the spans from the first '{' to the last '}' and from the first '[' to
// the last ']'; the earlier one that parses wins, otherwise the earlier one
// is returned as is. The second result is false when no payload delimiters
// are found.
func ExtractJSON(raw string) (string, bool) {
	s := stripThink(raw)
	s = stripFences(s)

	obj, objStart := span(s, "{", "}")
	arr, arrStart := span(s, "[", "]")

	candidates := []string{obj, arr}
	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		candidates = []string{arr, obj}
	}
	for _, c := range candidates {
		if c != "" && json.Valid([]byte(c)) {
			return c, true
		}
	}
	for _, c := range candidates {
		if c != "" {
			return c, true
		}
	}
	return "", false
}

func span(s, opener, closer string) (string, int) {
	start := strings.Index(s, opener)
	if start == -1 {
		return "", -1
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return "", -1
	}
	return s[start : end+1], start
}

func stripThink(s string) string {
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			return s
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			// unterminated block: everything after it is reasoning
			return s[:start]
		}
		s = s[:start] + s[start+end+len("</think>"):]
	}
}

func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
