package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.0-flash"

	// Utterances under this length with no tool use anticipated can be
	// served by the cheaper fallback model. Cost/latency trade-off only.
	shortMessageThreshold = 50

	completionTemperature = 0.7
	completionMaxTokens   = 500
)

// ErrNotConfigured signals a missing provider API key. Surfaced to clients
// as a non-retryable service error, distinct from rate limiting.
var ErrNotConfigured = errors.New("GEMINI_API_KEY environment variable is not set")

// Client wraps the chat-completion provider behind the fixed ordering tool
// schema. Construct it once and inject it; handlers must not reach for
// ambient globals.
type Client struct {
	genai         *genai.Client
	model         string
	fallbackModel string
}

func NewClient(ctx context.Context) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Client{
		genai:         client,
		model:         model,
		fallbackModel: os.Getenv("GEMINI_FALLBACK_MODEL"),
	}, nil
}

// SelectModel picks the cheaper fallback model for short utterances when one
// is configured, otherwise the primary model.
func (c *Client) SelectModel(message string) string {
	if len(message) < shortMessageThreshold && c.fallbackModel != "" {
		return c.fallbackModel
	}
	return c.model
}

// Completion is one assistant turn: free text plus at most one tool call.
type Completion struct {
	Text             string
	FunctionCall     *genai.FunctionCall
	Model            string
	PromptTokens     int32
	CompletionTokens int32
	TotalTokens      int32
	FinishReason     string
	ResponseTime     time.Duration
}

// Complete sends system prompt, truncated history, and the user utterance to
// the model with the ordering tool schema in auto mode. The resolver does
// not retry; rate limits are surfaced for the caller to back off on.
func (c *Client) Complete(ctx context.Context, model, systemPrompt string, history []HistoryEntry, message string) (*Completion, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, entry := range history {
		var role genai.Role = genai.RoleUser
		if entry.Sender != "user" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(entry.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	temperature := float32(completionTemperature)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   completionMaxTokens,
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Tools:             OrderingTools(),
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		},
	}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New("no candidates in model response")
	}

	candidate := resp.Candidates[0]
	comp := &Completion{
		Model:        model,
		FinishReason: string(candidate.FinishReason),
		ResponseTime: time.Since(start),
	}
	if resp.ModelVersion != "" {
		comp.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		comp.PromptTokens = resp.UsageMetadata.PromptTokenCount
		comp.CompletionTokens = resp.UsageMetadata.CandidatesTokenCount
		comp.TotalTokens = resp.UsageMetadata.TotalTokenCount
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				comp.Text += part.Text
			}
			// The model chooses at most one tool per turn; keep the first.
			if part.FunctionCall != nil && comp.FunctionCall == nil {
				comp.FunctionCall = part.FunctionCall
			}
		}
	}
	comp.Text = strings.TrimSpace(comp.Text)

	return comp, nil
}

// IsRateLimit reports whether the provider rejected the call for quota
// reasons. Retryable by the caller with backoff.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "quota")
}

// IsAuthError reports an authentication or configuration failure with the
// provider. Not retryable.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") ||
		strings.Contains(msg, "API key") ||
		strings.Contains(msg, "API_KEY_INVALID") ||
		strings.Contains(msg, "UNAUTHENTICATED") ||
		strings.Contains(msg, "PERMISSION_DENIED")
}
