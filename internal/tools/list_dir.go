package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"vitai/internal/github"
	"vitai/internal/logging"
	"vitai/internal/repos"
)

// ListDirTool lists the contents of a directory within a repository.
type ListDirTool struct {
	gh    *github.Client
	allow *repos.Set
}

// NewListDirTool creates a new ListDirTool instance.
func NewListDirTool(gh *github.Client, allow *repos.Set) *ListDirTool {
	return &ListDirTool{gh: gh, allow: allow}
}

func (t *ListDirTool) Name() string {
	return "list_directory_contents"
}

func (t *ListDirTool) Description() string {
	return "Lists the contents (files and directories) of a specific directory within a GitHub repository."
}

func (t *ListDirTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"repository": {
					Type:        genai.TypeString,
					Description: `The repository to inspect, formatted as "owner/repo".`,
				},
				"path": {
					Type:        genai.TypeString,
					Description: `The path to the directory to list. Use "." or "/" for the root directory.`,
				},
			},
			Required: []string{"repository", "path"},
		},
	}
}

func (t *ListDirTool) Validate(args map[string]any) error {
	if repository, ok := GetString(args, "repository"); !ok || repository == "" {
		return NewValidationError("repository", "is required")
	}
	if path, ok := GetString(args, "path"); !ok || path == "" {
		return NewValidationError("path", "is required")
	}
	return nil
}

func (t *ListDirTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	repository, _ := GetString(args, "repository")
	path, _ := GetString(args, "path")

	owner, name, obs := checkRepository(t.gh, t.allow, repository, "this functionality")
	if obs != "" {
		return NewErrorObservation(obs)
	}

	entries, err := t.gh.ListDirectory(ctx, owner, name, path)
	if err != nil {
		// A file path is a normal branch, not an error: redirect the
		// planner to read_file.
		var notDir *github.ErrNotDirectory
		if errors.As(err, &notDir) {
			return NewObservation(fmt.Sprintf(
				"Observation: The path %q in repository %s is a file, not a directory. Use read_file to see its content.",
				path, repository))
		}

		logging.Warn("directory listing failed", "repository", repository, "path", path, "error", err)
		return NewErrorObservation(fmt.Sprintf(
			"Observation: Error listing directory %q from repository %s. Reason: %s",
			path, repository, err))
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		marker := "f"
		if entry.Type == "dir" {
			marker = "d"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", marker, entry.Name))
	}

	return NewObservation(fmt.Sprintf(
		"Observation: Contents of %q in repository %s:\n%s",
		path, repository, strings.Join(lines, "\n")))
}
