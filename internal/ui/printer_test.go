package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"vitai/internal/agent"
)

func TestPrinterStep(t *testing.T) {
	var buf strings.Builder
	p := NewPrinter(&buf)

	p.Step(agent.ThinkingStep{
		Thought:     "look at the scripts",
		Action:      agent.Action{Tool: "read_file"},
		Observation: "Observation: file content",
	})

	out := buf.String()
	assert.Contains(t, out, "look at the scripts")
	assert.Contains(t, out, "read_file")
	assert.Contains(t, out, "Observation: file content")
}

func TestPrinterStepTruncatesLongObservation(t *testing.T) {
	var buf strings.Builder
	p := NewPrinter(&buf)

	p.Step(agent.ThinkingStep{
		Thought:     "t",
		Action:      agent.Action{Tool: "search_code"},
		Observation: strings.Repeat("x", 1000),
	})

	out := buf.String()
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.Repeat("x", 500))
}

func TestPrinterStepPreviewStaysValidUTF8(t *testing.T) {
	var buf strings.Builder
	p := NewPrinter(&buf)

	// A three-byte rune straddles the 400-byte preview cap.
	p.Step(agent.ThinkingStep{
		Thought:     "t",
		Action:      agent.Action{Tool: "read_file"},
		Observation: strings.Repeat("x", 399) + "日本語",
	})

	assert.True(t, utf8.ValidString(buf.String()))
	assert.NotContains(t, buf.String(), "本")
}

func TestPrinterError(t *testing.T) {
	var buf strings.Builder
	p := NewPrinter(&buf)

	p.Error("the run failed")
	assert.Contains(t, buf.String(), "Error: the run failed")
}

func TestToolIcon(t *testing.T) {
	assert.Equal(t, "🔍", ToolIcon("search_code"))
	assert.Equal(t, "•", ToolIcon("teleport"))
}
