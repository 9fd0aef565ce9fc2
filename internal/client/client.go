package client

import (
	"context"

	"google.golang.org/genai"
)

// Client defines the planner interface: one prompt in, free text plus any
// structured function calls out.
type Client interface {
	// Generate sends the prompt and returns the complete model response.
	Generate(ctx context.Context, prompt string) (*Response, error)

	// SetTools sets the tools available for function calling.
	SetTools(tools []*genai.Tool)

	// Model returns the model name.
	Model() string

	// Close closes the client connection.
	Close() error
}

// Response represents a complete response from the model.
type Response struct {
	// Text is the free-form text of the response (the model's "thought").
	Text string

	// FunctionCalls contains all function calls from the response, in the
	// order the model emitted them.
	FunctionCalls []*genai.FunctionCall
}
