package tools

import (
	"context"

	"google.golang.org/genai"
)

// FinishToolName is the name of the terminal tool. Calling it is the only
// sanctioned way for the planner to end a run; the agent loop intercepts it
// before dispatch.
const FinishToolName = "finish_answer"

// FinishTool declares the terminal finish_answer action.
type FinishTool struct{}

// NewFinishTool creates a new FinishTool instance.
func NewFinishTool() *FinishTool {
	return &FinishTool{}
}

func (t *FinishTool) Name() string {
	return FinishToolName
}

func (t *FinishTool) Description() string {
	return "Call this function when you have enough information to answer the user's question."
}

func (t *FinishTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"answer": {
					Type:        genai.TypeString,
					Description: "The final, comprehensive answer to the user's question in Markdown format.",
				},
			},
			Required: []string{"answer"},
		},
	}
}

func (t *FinishTool) Validate(args map[string]any) error {
	if answer, ok := GetString(args, "answer"); !ok || answer == "" {
		return NewValidationError("answer", "is required")
	}
	return nil
}

// Execute is never dispatched by the loop; it exists to satisfy the Tool
// interface and echoes the answer for any direct caller.
func (t *FinishTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	answer, _ := GetString(args, "answer")
	return NewObservation(answer)
}
