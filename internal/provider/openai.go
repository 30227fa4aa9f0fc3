package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/maiya-app/maiya/internal/domain"
)

// Config holds provider client settings.
type Config struct {
	APIKey string
	// BaseURL overrides the API host. Empty means the provider default.
	BaseURL    string
	ChatModel  string
	ImageModel string
	// Timeout bounds each individual call attempt.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first
	// for transient failures (429, 5xx, transport errors).
	MaxRetries int
	// RetryBackoff is the initial backoff; it doubles per attempt.
	RetryBackoff time.Duration
}

// OpenAI implements Client against an OpenAI-compatible API.
type OpenAI struct {
	client     *openai.Client
	chatModel  string
	imageModel string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

// NewOpenAI creates a provider client. A custom BaseURL points the client at
// a compatible self-hosted or test endpoint.
func NewOpenAI(cfg Config) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	return &OpenAI{
		client:     openai.NewClientWithConfig(clientConfig),
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
	}
}

// Complete sends the conversation to the chat-completion endpoint.
func (o *OpenAI) Complete(ctx context.Context, systemPrompt string, history []domain.Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	var reply string
	err := o.withRetry(ctx, "chat completion", func(callCtx context.Context) error {
		resp, err := o.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:    o.chatModel,
			Messages: messages,
		})
		if err != nil {
			return normalizeError(err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return &Error{Message: "chat response contained no choices"}
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	return reply, err
}

// GenerateImage asks the image endpoint for a single image URL.
func (o *OpenAI) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var url string
	err := o.withRetry(ctx, "image generation", func(callCtx context.Context) error {
		resp, err := o.client.CreateImage(callCtx, openai.ImageRequest{
			Prompt:         prompt,
			Model:          o.imageModel,
			N:              1,
			Size:           openai.CreateImageSize1024x1024,
			ResponseFormat: openai.CreateImageResponseFormatURL,
		})
		if err != nil {
			return normalizeError(err)
		}
		if len(resp.Data) == 0 || resp.Data[0].URL == "" {
			return &Error{Message: "image response contained no URL"}
		}
		url = resp.Data[0].URL
		return nil
	})
	return url, err
}

// withRetry runs call with a per-attempt timeout, retrying transient
// failures with doubling backoff.
func (o *OpenAI) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	var lastErr error
	backoff := o.backoff

	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("Retrying provider call", "op", op, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		err := call(callCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

// normalizeError converts SDK errors into *Error, preserving the upstream
// status and message.
func normalizeError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Status: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return err
}
