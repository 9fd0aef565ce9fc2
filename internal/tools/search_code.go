package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"vitai/internal/github"
	"vitai/internal/logging"
	"vitai/internal/repos"
)

// maxSearchResults caps how many ranked matches are fed back to the planner.
const maxSearchResults = 5

// SearchCodeTool performs a lexical code search within one repository.
type SearchCodeTool struct {
	gh    *github.Client
	allow *repos.Set
}

// NewSearchCodeTool creates a new SearchCodeTool instance.
func NewSearchCodeTool(gh *github.Client, allow *repos.Set) *SearchCodeTool {
	return &SearchCodeTool{gh: gh, allow: allow}
}

func (t *SearchCodeTool) Name() string {
	return "search_code"
}

func (t *SearchCodeTool) Description() string {
	return "Searches for code within a specific GitHub repository."
}

func (t *SearchCodeTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"repository": {
					Type:        genai.TypeString,
					Description: `The repository to search, formatted as "owner/repo".`,
				},
				"query": {
					Type:        genai.TypeString,
					Description: "The search query.",
				},
			},
			Required: []string{"repository", "query"},
		},
	}
}

func (t *SearchCodeTool) Validate(args map[string]any) error {
	if repository, ok := GetString(args, "repository"); !ok || repository == "" {
		return NewValidationError("repository", "is required")
	}
	if query, ok := GetString(args, "query"); !ok || query == "" {
		return NewValidationError("query", "is required")
	}
	return nil
}

// searchResult is the projection of one match that the planner sees.
type searchResult struct {
	Path     string  `json:"path"`
	Score    float64 `json:"score"`
	Snippets string  `json:"snippets"`
}

func (t *SearchCodeTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	repository, _ := GetString(args, "repository")
	query, _ := GetString(args, "query")

	owner, name, obs := checkRepository(t.gh, t.allow, repository, "the GitHub search functionality")
	if obs != "" {
		return NewErrorObservation(obs)
	}

	items, err := t.gh.SearchCode(ctx, owner, name, query)
	if err != nil {
		logging.Warn("code search failed", "repository", repository, "query", query, "error", err)
		return NewErrorObservation(fmt.Sprintf(
			"Observation: Error searching GitHub for query %q in %s. Reason: %s",
			query, repository, err))
	}

	if len(items) > maxSearchResults {
		items = items[:maxSearchResults]
	}

	results := make([]searchResult, 0, len(items))
	for _, item := range items {
		snippets := joinFragments(item.TextMatches)
		results = append(results, searchResult{
			Path:     item.Path,
			Score:    item.Score,
			Snippets: snippets,
		})
	}

	if len(results) == 0 {
		return NewObservation(fmt.Sprintf(
			"Observation: No results found for query %q in repository %s. Try a broader query or a different repository.",
			query, repository))
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return NewErrorObservation(fmt.Sprintf(
			"Observation: Error searching GitHub for query %q in %s. Reason: %s",
			query, repository, err))
	}

	return NewObservation(fmt.Sprintf(
		"Observation: Found %d files. The most relevant files and code snippets are:\n%s",
		len(results), payload))
}

// joinFragments joins text-match fragments into a single snippet block.
func joinFragments(matches []github.TextMatch) string {
	if len(matches) == 0 {
		return "No snippets available."
	}
	fragments := make([]string, 0, len(matches))
	for _, m := range matches {
		fragments = append(fragments, m.Fragment)
	}
	return strings.Join(fragments, "\n...\n")
}
