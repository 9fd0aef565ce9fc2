package ui

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"

	"vitai/internal/agent"
)

// observationPreviewLimit caps how much of each observation is echoed to the
// terminal; the full text still reaches the planner.
const observationPreviewLimit = 400

// Printer writes agent progress and results to a terminal.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styles: DefaultStyles()}
}

// Step prints one thinking step as it lands.
func (p *Printer) Step(step agent.ThinkingStep) {
	fmt.Fprintln(p.w, p.styles.Thought.Render("Thought: ")+step.Thought)
	fmt.Fprintln(p.w, p.styles.Action.Render("Action: ")+ToolIcon(step.Action.Tool)+" "+step.Action.Tool)

	observation := step.Observation
	if len(observation) > observationPreviewLimit {
		// Back up to a rune boundary so the preview stays valid UTF-8.
		cut := observationPreviewLimit
		for cut > 0 && !utf8.RuneStart(observation[cut]) {
			cut--
		}
		observation = observation[:cut] + "…"
	}
	fmt.Fprintln(p.w, p.styles.Dim.Render(observation))
	fmt.Fprintln(p.w)
}

// Answer renders the final answer as terminal markdown, falling back to the
// raw text when the renderer is unavailable.
func (p *Printer) Answer(text string) {
	fmt.Fprintln(p.w, renderMarkdown(text))
}

// Error prints a terminal run failure.
func (p *Printer) Error(message string) {
	fmt.Fprintln(p.w, p.styles.Error.Render("Error: "+message))
}

func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
