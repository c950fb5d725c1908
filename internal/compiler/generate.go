package compiler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports a generative response that could not be turned
// into a valid workflow. Raw carries the offending model output for
// diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing generated workflow: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls a JSON object out of free model text. Code fences
// are stripped first, then the largest brace-delimited span is tried,
// with a single-quote repair pass for models that emit almost-JSON.
func ExtractJSON(text string) (string, bool) {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end != -1 {
			text = strings.TrimSpace(text[start : start+end])
		}
	} else if idx := strings.Index(text, "```"); idx != -1 {
		start := idx + len("```")
		if end := strings.Index(text[start:], "```"); end != -1 {
			text = strings.TrimSpace(text[start : start+end])
		}
	}

	if json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return text, true
	}

	if match := jsonObjectRegex.FindString(text); match != "" {
		if json.Valid([]byte(match)) {
			return match, true
		}
		repaired := strings.ReplaceAll(match, "'", `"`)
		if json.Valid([]byte(repaired)) {
			return repaired, true
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}

	return "", false
}
