package tools

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"vitai/internal/github"
	"vitai/internal/repos"
)

// Tool defines the interface for all tools.
type Tool interface {
	// Name returns the unique name of the tool.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Declaration returns the Gemini function declaration for this tool.
	Declaration() *genai.FunctionDeclaration

	// Execute runs the tool with the given arguments. Failures never
	// propagate as errors: every outcome is encoded as an observation
	// string the planner reasons over next iteration.
	Execute(ctx context.Context, args map[string]any) ToolResult

	// Validate validates the arguments before execution.
	Validate(args map[string]any) error
}

// ToolResult represents the result of a tool execution. Observation is the
// full text fed back to the planner; Success distinguishes normal results
// from recovered error conditions, for logging only.
type ToolResult struct {
	Observation string
	Success     bool
}

// NewObservation creates a successful tool result.
func NewObservation(text string) ToolResult {
	return ToolResult{Observation: text, Success: true}
}

// NewErrorObservation creates a tool result for a recovered error condition.
func NewErrorObservation(text string) ToolResult {
	return ToolResult{Observation: text, Success: false}
}

// ValidationError represents a tool argument validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// GetString extracts a string argument from the args map.
func GetString(args map[string]any, key string) (string, bool) {
	val, ok := args[key]
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// parseRepository splits "owner/name" into its two segments. ok is false
// unless there are exactly two non-empty segments.
func parseRepository(repository string) (owner, name string, ok bool) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// checkRepository runs the shared preconditions for the GitHub-backed tools:
// credential presence, repository format, and allow-list membership. The
// returned observation is empty when the call may proceed. No network I/O
// happens here.
func checkRepository(gh *github.Client, allow *repos.Set, repository, tokenHint string) (owner, name, observation string) {
	if !gh.Authenticated() {
		return "", "", "Observation: Your GITHUB_TOKEN is not configured. Please set it as an environment variable to use " + tokenHint + "."
	}

	owner, name, ok := parseRepository(repository)
	if !ok {
		return "", "", `Observation: Invalid repository format. Please use "owner/repo".`
	}

	if !allow.Contains(owner, name) {
		return "", "", "Observation: Repository \"" + repository + "\" is not in the list of permitted repositories."
	}

	return owner, name, ""
}
