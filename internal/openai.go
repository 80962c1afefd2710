package internal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClientInterface defines the interface for OpenAI client operations
type OpenAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, model, system, user string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL uses the
// public OpenAI endpoint; set it to point at Azure OpenAI or a compatible
// proxy instead.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1000),
		TopP:        openai.Float(0.95),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", NewQAError(ErrUpstreamError, "no response choices from OpenAI")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", NewQAError(ErrUpstreamError, "no response content from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// AI handles OpenAI API interactions for answer generation
type AI struct {
	client     OpenAIClientInterface
	model      string
	timeout    time.Duration
	apiKey     string
	baseURL    string
	clientOnce sync.Once
}

// NewAI creates a new AI processor with an explicit client, used by tests
// and anywhere a custom backend is injected
func NewAI(client OpenAIClientInterface, model string, timeout time.Duration) *AI {
	return &AI{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

// NewAIWithKey creates a new AI processor with lazy client initialization
func NewAIWithKey(apiKey, baseURL, model string, timeout time.Duration) *AI {
	return &AI{
		client:  nil,
		model:   model,
		timeout: timeout,
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// Configured reports whether the AI backend can make requests. The apiKey
// check comes first so the lazily initialized client field is never read
// outside the Once.
func (ai *AI) Configured() bool {
	return ai.apiKey != "" || ai.client != nil
}

// ensureClient initializes the OpenAI client if needed. Concurrent callers
// all go through the Once; reading ai.client after Do returns is safe.
func (ai *AI) ensureClient() error {
	ai.clientOnce.Do(func() {
		if ai.client == nil && ai.apiKey != "" {
			ai.client = NewOpenAIClient(ai.apiKey, ai.baseURL)
		}
	})

	if ai.client == nil {
		return NewQAError(ErrUpstreamUnavailable, "OpenAI API key is not configured")
	}
	return nil
}

// Ask generates an answer from a system prompt and user content
func (ai *AI) Ask(ctx context.Context, system, user string) (string, error) {
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	content, err := ai.client.CreateChatCompletion(ctx, ai.model, system, user)
	if err != nil {
		return "", classifyUpstreamError(err)
	}

	return content, nil
}

// classifyUpstreamError maps SDK failures to the error taxonomy. API-level
// responses become ErrUpstreamError, anything that never reached the API
// becomes ErrUpstreamUnavailable.
func classifyUpstreamError(err error) error {
	var qaErr *QAError
	if errors.As(err, &qaErr) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return NewQAError(ErrUpstreamError, "OpenAI API error: %d - %s", apiErr.StatusCode, apiErr.Message)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewQAError(ErrUpstreamError, "request timeout: OpenAI API took too long to respond")
	}

	return NewQAError(ErrUpstreamUnavailable, "reaching OpenAI: %v", err)
}
