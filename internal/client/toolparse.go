package client

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"google.golang.org/genai"

	"vitai/internal/logging"
)

// toolCallFromText represents a tool call parsed from text output.
type toolCallFromText struct {
	Tool string         `json:"tool"`
	Name string         `json:"name"` // alias for "tool"
	Args map[string]any `json:"args"`
}

// codeBlockPattern matches ```json ... ``` blocks.
var codeBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*?\\})\\s*\\n?```")

// ParseToolCallFromText attempts to extract a single tool call embedded in
// model text output. Used as a fallback when the API returned no structured
// function call: some responses describe the intended call as JSON in the
// free text instead. Returns nil when the text holds no recognizable call.
func ParseToolCallFromText(text string) *genai.FunctionCall {
	if text == "" {
		return nil
	}

	// JSON code blocks take priority over bare objects.
	for _, match := range codeBlockPattern.FindAllStringSubmatch(text, -1) {
		if len(match) < 2 {
			continue
		}
		if fc := parseToolCallJSON(match[1]); fc != nil {
			return fc
		}
	}

	for _, obj := range findJSONObjects(text) {
		if fc := parseToolCallJSON(obj); fc != nil {
			return fc
		}
	}

	return nil
}

// parseToolCallJSON parses one candidate JSON object, repairing common model
// JSON defects (trailing commas, single quotes, unquoted keys) first.
func parseToolCallJSON(raw string) *genai.FunctionCall {
	candidate := strings.TrimSpace(raw)
	if !strings.Contains(candidate, "tool") && !strings.Contains(candidate, "name") {
		return nil
	}

	var call toolCallFromText
	if err := json.Unmarshal([]byte(candidate), &call); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(candidate)
		if repairErr != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(repaired), &call); err != nil {
			return nil
		}
		logging.Debug("repaired malformed tool call JSON")
	}

	name := call.Tool
	if name == "" {
		name = call.Name
	}
	if name == "" {
		return nil
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}

	return &genai.FunctionCall{Name: name, Args: args}
}

// findJSONObjects extracts top-level JSON objects from text by matching braces.
func findJSONObjects(text string) []string {
	var objects []string
	i := 0
	for i < len(text) {
		if text[i] != '{' {
			i++
			continue
		}

		depth := 0
		inString := false
		escaped := false
		j := i
		for j < len(text) {
			ch := text[j]
			if escaped {
				escaped = false
				j++
				continue
			}
			if ch == '\\' && inString {
				escaped = true
				j++
				continue
			}
			if ch == '"' {
				inString = !inString
			}
			if !inString {
				if ch == '{' {
					depth++
				} else if ch == '}' {
					depth--
					if depth == 0 {
						objects = append(objects, text[i:j+1])
						break
					}
				}
			}
			j++
		}
		if depth != 0 {
			// Unbalanced braces to end of text
			break
		}
		i = j + 1
	}
	return objects
}
