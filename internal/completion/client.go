// ABOUTME: CompletionClient invokes the external text-completion provider
// ABOUTME: Wraps an OpenAI-compatible chat completions endpoint with usage accounting

package completion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tucoach/interview-gateway/internal/config"
	"github.com/tucoach/interview-gateway/internal/prompt"
	"github.com/tucoach/interview-gateway/internal/store"
)

// Usage carries token accounting for one completion call.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Result is a successful completion: the generated assistant text plus usage.
type Result struct {
	Text  string
	Usage Usage
}

// Client generates an assistant reply for a composed prompt context.
// Implementations must return an error for every provider failure mode
// (timeout, malformed response, auth failure, empty generation) rather than
// raising, so callers can distinguish "no reply produced" from downstream
// persistence failures.
type Client interface {
	Complete(ctx context.Context, pc *prompt.Context) (*Result, error)
}

// OpenAIClient implements Client against an OpenAI-compatible endpoint.
// The endpoint, credentials, and model come from configuration, never from
// hardcoded values.
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOpenAIClient creates a completion client from provider configuration.
func NewOpenAIClient(cfg config.ProviderConfig, logger *slog.Logger) *OpenAIClient {
	if logger == nil {
		logger = slog.Default()
	}

	options := []option.RequestOption{option.WithBaseURL(cfg.BaseURL)}
	if cfg.APIKey != "" {
		options = append(options, option.WithAPIKey(cfg.APIKey))
	}

	return &OpenAIClient{
		client:  openai.NewClient(options...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.With("component", "completion"),
	}
}

// Complete sends the composed context to the provider and returns the
// generated text with token usage. This is the single highest-latency step
// in a turn; the deadline bounds provider non-response so a hang surfaces
// as a distinguishable error.
func (c *OpenAIClient) Complete(ctx context.Context, pc *prompt.Context) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(pc.Messages)+1)
	messages = append(messages, openai.SystemMessage(pc.System))
	for _, msg := range pc.Messages {
		switch msg.Role {
		case store.TurnRoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no content choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("provider returned an empty generation")
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}

	c.logger.Debug("completion finished",
		"model", c.model,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"total_tokens", usage.TotalTokens,
	)

	return &Result{Text: text, Usage: usage}, nil
}

// Ensure OpenAIClient implements Client
var _ Client = (*OpenAIClient)(nil)
