// Package mocks provides hand-written test doubles for the pipeline's
// collaborator interfaces. All mocks record their calls and support
// error injection through builder methods.
package mocks

import (
	"context"
	"sync"

	"github.com/propertytek/chatflow/llm"
)

// LLMClient is a mock generation backend.
type LLMClient struct {
	mu sync.Mutex

	intent   llm.IntentResult
	response llm.ResponseResult

	classifyErr error
	generateErr error

	classifyFunc func(ctx context.Context, query, model string) (llm.IntentResult, error)
	generateFunc func(ctx context.Context, req llm.ResponseRequest) (llm.ResponseResult, error)

	ClassifyCalls []string
	GenerateCalls []llm.ResponseRequest
}

var _ llm.Client = (*LLMClient)(nil)

// NewLLMClient creates a mock with neutral defaults.
func NewLLMClient() *LLMClient {
	return &LLMClient{
		intent: llm.IntentResult{Intent: "general_info"},
		response: llm.ResponseResult{
			Message:          "Mock response",
			SuggestedActions: []string{"Ask about properties"},
		},
	}
}

// WithIntent sets the classification result.
func (m *LLMClient) WithIntent(intent string) *LLMClient {
	m.intent = llm.IntentResult{Intent: intent}
	return m
}

// WithEntities sets the extracted entities on the classification result.
func (m *LLMClient) WithEntities(entities map[string]string) *LLMClient {
	m.intent.Entities = entities
	return m
}

// WithResponse sets the generated reply.
func (m *LLMClient) WithResponse(message string, actions ...string) *LLMClient {
	m.response = llm.ResponseResult{Message: message, SuggestedActions: actions}
	return m
}

// WithClassifyError makes ClassifyIntent fail.
func (m *LLMClient) WithClassifyError(err error) *LLMClient {
	m.classifyErr = err
	return m
}

// WithGenerateError makes GenerateResponse fail.
func (m *LLMClient) WithGenerateError(err error) *LLMClient {
	m.generateErr = err
	return m
}

// WithClassifyFunc overrides classification entirely.
func (m *LLMClient) WithClassifyFunc(f func(ctx context.Context, query, model string) (llm.IntentResult, error)) *LLMClient {
	m.classifyFunc = f
	return m
}

// WithGenerateFunc overrides generation entirely.
func (m *LLMClient) WithGenerateFunc(f func(ctx context.Context, req llm.ResponseRequest) (llm.ResponseResult, error)) *LLMClient {
	m.generateFunc = f
	return m
}

func (m *LLMClient) ClassifyIntent(ctx context.Context, query, model string) (llm.IntentResult, error) {
	m.mu.Lock()
	m.ClassifyCalls = append(m.ClassifyCalls, query)
	m.mu.Unlock()

	if m.classifyFunc != nil {
		return m.classifyFunc(ctx, query, model)
	}
	if m.classifyErr != nil {
		return llm.IntentResult{}, m.classifyErr
	}
	return m.intent, nil
}

func (m *LLMClient) GenerateResponse(ctx context.Context, req llm.ResponseRequest) (llm.ResponseResult, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	if m.generateErr != nil {
		return llm.ResponseResult{}, m.generateErr
	}
	return m.response, nil
}
