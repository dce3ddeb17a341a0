package crewflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

var predefinedTools = []string{
	"web_search",
	"calculator",
	"data_analysis",
	"text_summarization",
	"language_translation",
	"image_recognition",
	"speech_to_text",
	"text_to_speech",
	"sentiment_analysis",
	"code_generation",
	"database_query",
	"file_manipulation",
	"api_integration",
	"natural_language_processing",
	"machine_learning",
}

// Tools returns the tool identifiers offered to agents by the form editor.
func Tools() []string {
	return append([]string(nil), predefinedTools...)
}

// ToolList is an ordered set of tool identifiers.
type ToolList []string

// UnmarshalJSON accepts a list of strings, null, or the legacy
// comma-separated string form ("a,b").
func (t *ToolList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = splitTools(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tools must be a list of strings: %w", err)
	}
	*t = dedupTools(list)
	return nil
}

// Toggle adds tool if absent and removes it otherwise.
func (t ToolList) Toggle(tool string) ToolList {
	for i, have := range t {
		if have == tool {
			return append(append(ToolList{}, t[:i]...), t[i+1:]...)
		}
	}
	return append(append(ToolList{}, t...), tool)
}

func splitTools(s string) ToolList {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return dedupTools(out)
}

func dedupTools(in []string) ToolList {
	out := make(ToolList, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, tool := range in {
		if _, ok := seen[tool]; ok {
			continue
		}
		seen[tool] = struct{}{}
		out = append(out, tool)
	}
	return out
}
