package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError means a model response could not be recovered as JSON. The
// whole analysis fails; no per-field salvage is attempted.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("llm response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractJSONObject pulls the first JSON object out of free-form model
// output. Models routinely wrap the requested JSON in prose or code fences,
// so surrounding text is forgiven: fences are stripped, then the span from
// the first '{' to the last '}' is parsed. The interior must still be valid
// JSON.
func ExtractJSONObject(raw string, v interface{}) error {
	s := stripCodeFences(raw)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return &ParseError{Err: fmt.Errorf("no JSON object found in response")}
	}

	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
