package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/types"
)

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// OpenAIClient implements Client against an OpenAI-compatible chat
// completions endpoint.
type OpenAIClient struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *zap.Logger
}

// NewOpenAIClient creates the provider. BaseURL defaults to the OpenAI API.
func NewOpenAIClient(cfg OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(zap.String("component", "llm_openai")),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"` // json_object
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const classifySystemPrompt = `You are an intent classifier for a property leasing assistant.
Classify the user's message into exactly one intent:
property_search, schedule_tour, confirm_booking, greeting, self_introduction, non_property, general_info.
Extract simple string entities when present (city, bedrooms, budget, pets).
Respond with JSON only: {"intent": "...", "entities": {...}, "confidence": "high|medium|low"}`

// ClassifyIntent asks the backend for an intent label. Malformed output
// degrades to general_info rather than an error.
func (c *OpenAIClient) ClassifyIntent(ctx context.Context, query, model string) (IntentResult, error) {
	content, err := c.complete(ctx, model, []chatMessage{
		{Role: "system", Content: classifySystemPrompt},
		{Role: "user", Content: query},
	})
	if err != nil {
		return IntentResult{}, fmt.Errorf("classify intent: %w", err)
	}

	var result IntentResult
	if err := json.Unmarshal([]byte(extractJSON(content)), &result); err != nil || result.Intent == "" {
		c.logger.Warn("unparseable intent output, defaulting",
			zap.String("content", truncate(content, 200)))
		return IntentResult{Intent: "general_info", Confidence: "low"}, nil
	}
	return result, nil
}

const respondSystemPrompt = `You are a friendly leasing assistant for Texas rental properties.
Use the provided context (search results, tour slots, booking record, fallback reason, prior filters) to answer the user's message.
Keep replies short and concrete. Respond with JSON only:
{"message": "...", "suggested_actions": ["...", "..."]}`

// GenerateResponse produces the user-facing reply. Malformed output
// degrades to a default message and action set.
func (c *OpenAIClient) GenerateResponse(ctx context.Context, req ResponseRequest) (ResponseResult, error) {
	contextBlob, err := json.Marshal(map[string]any{
		"intent":          req.Intent,
		"properties":      req.Properties,
		"available_slots": req.AvailableSlots,
		"appointment":     req.Appointment,
		"fallback":        req.Fallback,
		"search_filters":  req.Filters,
		"error":           req.Error,
	})
	if err != nil {
		return ResponseResult{}, fmt.Errorf("marshal response context: %w", err)
	}

	messages := []chatMessage{{Role: "system", Content: respondSystemPrompt}}
	for _, m := range tailMessages(req.Messages, 10) {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages,
		chatMessage{Role: "system", Content: "Context: " + string(contextBlob)},
		chatMessage{Role: "user", Content: req.UserQuery},
	)

	content, err := c.complete(ctx, req.Model, messages)
	if err != nil {
		return ResponseResult{}, fmt.Errorf("generate response: %w", err)
	}

	var result ResponseResult
	if err := json.Unmarshal([]byte(extractJSON(content)), &result); err != nil || result.Message == "" {
		c.logger.Warn("unparseable response output, defaulting",
			zap.String("content", truncate(content, 200)))
		return ResponseResult{
			Message:          "I'm here to help you with your property needs.",
			SuggestedActions: []string{"Ask about properties", "Schedule a tour", "Get help"},
		}, nil
	}
	return result, nil
}

// complete performs one chat completions call and returns the first
// choice's content.
func (c *OpenAIClient) complete(ctx context.Context, model string, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          model,
		Messages:       messages,
		Temperature:    0.2,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm backend status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm backend error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm backend returned no choices")
	}

	content := parsed.Choices[0].Message.Content
	c.logger.Debug("completion finished",
		zap.String("model", model),
		zap.Int("prompt_tokens", c.promptTokens(model, messages, parsed.Usage.PromptTokens)),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return content, nil
}

// promptTokens prefers the backend's usage report and falls back to a
// local tiktoken estimate for backends that omit usage.
func (c *OpenAIClient) promptTokens(model string, messages []chatMessage, reported int) int {
	if reported > 0 {
		return reported
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0
		}
	}
	total := 0
	for _, m := range messages {
		total += len(enc.Encode(m.Content, nil, nil))
	}
	return total
}

// extractJSON trims code fences and surrounding prose that some models
// wrap around JSON output.
func extractJSON(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if start := strings.Index(s, "{"); start > 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func tailMessages(msgs []types.Message, n int) []types.Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
