package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/poshan-labs/poshan/internal/domain"
	"github.com/poshan-labs/poshan/internal/metrics"
)

// Completer is a chat-completion provider using the OpenAI-compatible
// API. Used to polish templated answers; callers must treat failures as
// non-fatal.
type Completer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	return &Completer{
		client: newClient(cfg),
		model:  cfg.CompletionModel,
		logger: cfg.Logger,
	}
}

// Complete implements the composer's Completer contract.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("completion request failed: %v: %w", err, domain.ErrCompletionProviderError)
	}
	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	c.logger.Debug("Completion generated",
		zap.String("model", c.model),
		zap.Duration("duration", duration))
	return resp.Choices[0].Message.Content, nil
}
