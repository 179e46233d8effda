package assist

import (
	"context"

	"bayassist/models"
)

// ToolCall is the model's request to invoke one catalog function.
type ToolCall struct {
	Name string
	Args map[string]any
}

// Decision is the tagged outcome of one model round: either a plain reply or
// exactly one function call. Call takes precedence when set.
type Decision struct {
	Reply string
	Call  *ToolCall
}

// ChatRequest opens one tool-calling exchange with the model.
type ChatRequest struct {
	SystemInstructions string
	History            []models.Message
	UserMessage        string
	Catalog            *Catalog
}

// ChatSession is one live exchange. Sessions are single-use and never shared
// between requests; tests substitute a scripted fake.
type ChatSession interface {
	// Send delivers the user message (first round only) and returns the
	// model's decision.
	Send(ctx context.Context) (*Decision, error)
	// SendFunctionResult feeds an execution result back to the model so it can
	// phrase the final reply.
	SendFunctionResult(ctx context.Context, name string, result models.FunctionResult) (*Decision, error)
}

// ChatModel creates sessions. Injected rather than a process-wide singleton so
// tests and the evaluation harness run without state bleed.
type ChatModel interface {
	StartSession(ctx context.Context, req ChatRequest) (ChatSession, error)
}
