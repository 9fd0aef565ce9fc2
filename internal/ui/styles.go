// Package ui renders agent activity and final answers for the terminal.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors for the terminal theme.
var (
	ColorThought = lipgloss.Color("12") // bright blue
	ColorAction  = lipgloss.Color("5")  // magenta
	ColorError   = lipgloss.Color("9")  // bright red
	ColorMuted   = lipgloss.Color("8")  // gray
)

// Styles groups the lipgloss styles used when printing a run.
type Styles struct {
	Thought lipgloss.Style
	Action  lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
}

// DefaultStyles returns the standard style set.
func DefaultStyles() Styles {
	return Styles{
		Thought: lipgloss.NewStyle().Foreground(ColorThought).Bold(true),
		Action:  lipgloss.NewStyle().Foreground(ColorAction),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Dim:     lipgloss.NewStyle().Faint(true),
	}
}

// toolIcons maps tool names to a marker shown next to each action.
var toolIcons = map[string]string{
	"search_code":             "🔍",
	"read_file":               "📄",
	"list_directory_contents": "📂",
	"finish_answer":           "✅",
}

// ToolIcon returns the marker for a tool, or a neutral dot for unknown names.
func ToolIcon(tool string) string {
	if icon, ok := toolIcons[tool]; ok {
		return icon
	}
	return "•"
}
