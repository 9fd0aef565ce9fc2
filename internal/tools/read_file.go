package tools

import (
	"context"
	"fmt"
	"unicode/utf8"

	"google.golang.org/genai"

	"vitai/internal/github"
	"vitai/internal/logging"
	"vitai/internal/repos"
)

// maxFileChars is how much file content is fed back to the planner.
// Truncation is silent: the planner works with partial content.
const maxFileChars = 4000

// ReadFileTool reads the content of one file from a repository.
type ReadFileTool struct {
	gh    *github.Client
	allow *repos.Set
}

// NewReadFileTool creates a new ReadFileTool instance.
func NewReadFileTool(gh *github.Client, allow *repos.Set) *ReadFileTool {
	return &ReadFileTool{gh: gh, allow: allow}
}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Description() string {
	return "Reads the content of a specific file from a GitHub repository."
}

func (t *ReadFileTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"repository": {
					Type:        genai.TypeString,
					Description: `The repository the file belongs to, formatted as "owner/repo".`,
				},
				"path": {
					Type:        genai.TypeString,
					Description: "The full path to the file within the repository.",
				},
			},
			Required: []string{"repository", "path"},
		},
	}
}

func (t *ReadFileTool) Validate(args map[string]any) error {
	if repository, ok := GetString(args, "repository"); !ok || repository == "" {
		return NewValidationError("repository", "is required")
	}
	if path, ok := GetString(args, "path"); !ok || path == "" {
		return NewValidationError("path", "is required")
	}
	return nil
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	repository, _ := GetString(args, "repository")
	path, _ := GetString(args, "path")

	owner, name, obs := checkRepository(t.gh, t.allow, repository, "the GitHub search functionality")
	if obs != "" {
		return NewErrorObservation(obs)
	}

	content, err := t.gh.GetContents(ctx, owner, name, path)
	if err != nil {
		logging.Warn("file read failed", "repository", repository, "path", path, "error", err)
		return NewErrorObservation(fmt.Sprintf(
			"Observation: Error reading file %q from repository %s. Reason: %s",
			path, repository, err))
	}

	content = truncate(content, maxFileChars)

	return NewObservation(fmt.Sprintf(
		"Observation: Content of file %q from repository %s:\n\n```\n%s\n```",
		path, repository, content))
}

// truncate caps s at limit bytes without splitting a multi-byte rune, so the
// observation stays valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
