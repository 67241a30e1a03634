// Package llm is the natural-language generation collaborator: intent
// classification for the entry node and response shaping for the terminal
// node. The engine consumes it only through the Client interface; the
// shipped implementation targets any OpenAI-compatible chat completions
// endpoint.
package llm

import (
	"context"

	"github.com/propertytek/chatflow/types"
)

// IntentResult is the classification outcome for one user query.
type IntentResult struct {
	Intent     string            `json:"intent"`
	Entities   map[string]string `json:"entities,omitempty"`
	Confidence string            `json:"confidence,omitempty"`
}

// FallbackContext mirrors the workflow fallback payload at this boundary
// so the generator can shape degraded responses without importing the
// engine.
type FallbackContext struct {
	Kind    string         `json:"kind"`
	Details map[string]any `json:"details,omitempty"`
}

// ResponseRequest carries everything the terminal node knows into the
// generation call.
type ResponseRequest struct {
	Model          string
	UserQuery      string
	Intent         string
	Properties     []types.Property
	AvailableSlots []types.Slot
	Appointment    *types.Appointment
	Fallback       *FallbackContext
	Messages       []types.Message
	Filters        types.Criteria
	Error          string
}

// ResponseResult is the generated user-facing reply.
type ResponseResult struct {
	Message          string   `json:"message"`
	SuggestedActions []string `json:"suggested_actions"`
}

// Client is the generation backend contract. Implementations must tolerate
// malformed model output by falling back to a default message and action
// set rather than returning an error for parse failures.
type Client interface {
	ClassifyIntent(ctx context.Context, query, model string) (IntentResult, error)
	GenerateResponse(ctx context.Context, req ResponseRequest) (ResponseResult, error)
}
