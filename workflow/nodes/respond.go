package nodes

import (
	"context"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/llm"
	"github.com/propertytek/chatflow/workflow"
)

// ResponseGenerator is the terminal node. Its delta always carries a
// message, suggested actions and the completion flag, even when the
// generation backend is down.
type ResponseGenerator struct {
	llm    llm.Client
	logger *zap.Logger
}

const (
	defaultMessage = "I'm here to help you with your property needs."
	apologyMessage = "I apologize, but I encountered an error. Please try again."
)

var (
	defaultActions = []string{"Ask about properties", "Schedule a tour", "Get help"}
	apologyActions = []string{"Try rephrasing your question", "Contact support", "Ask for help"}
)

func (n *ResponseGenerator) Execute(ctx context.Context, st workflow.State, cfg workflow.RunConfig) (workflow.Delta, error) {
	req := llm.ResponseRequest{
		Model:          cfg.ResponseModel,
		UserQuery:      st.UserQuery,
		Intent:         st.Intent,
		Properties:     st.Properties,
		AvailableSlots: st.AvailableSlots,
		Appointment:    st.Appointment,
		Fallback:       toFallbackContext(st.Fallback),
		Messages:       st.Messages,
		Filters:        st.SearchFilters,
		Error:          st.Error,
	}

	result, err := n.llm.GenerateResponse(ctx, req)
	if err != nil {
		// One recovery attempt with an explicit failure context before
		// falling back to the static apology.
		n.logger.Warn("response generation failed, retrying with failure context", zap.Error(err))
		req.Fallback = &llm.FallbackContext{
			Kind: string(workflow.FallbackGeneralFailure),
			Details: map[string]any{
				"error_type":         "system_error",
				"user_query":         st.UserQuery,
				"available_services": []string{"property search", "tour scheduling", "general questions"},
			},
		}
		result, err = n.llm.GenerateResponse(ctx, req)
		if err != nil {
			n.logger.Error("response generation failed twice, using static reply", zap.Error(err))
			result = llm.ResponseResult{Message: apologyMessage, SuggestedActions: apologyActions}
		}
	}

	message := result.Message
	if message == "" {
		message = defaultMessage
	}
	actions := result.SuggestedActions
	if len(actions) == 0 {
		actions = defaultActions
	}
	if len(actions) > 3 {
		actions = actions[:3]
	}

	return workflow.NewDelta().
		ResponseMessage(message).
		SuggestedActions(actions).
		Complete(true), nil
}

func toFallbackContext(f *workflow.Fallback) *llm.FallbackContext {
	if f == nil {
		return nil
	}
	return &llm.FallbackContext{Kind: string(f.Kind), Details: f.Details}
}
