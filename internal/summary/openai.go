package summary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/quickrecap/internal/apierr"
)

// defaultOpenAIModel is an instruct model served by the completions endpoint.
const defaultOpenAIModel = openai.GPT3Dot5TurboInstruct

// completer is the subset of *openai.Client used by the OpenAI tier.
type completer interface {
	CreateCompletion(ctx context.Context, req openai.CompletionRequest) (openai.CompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Tier      = (*OpenAI)(nil)
	_ completer = (*openai.Client)(nil)
)

// OpenAI summarizes through the OpenAI completions API.
type OpenAI struct {
	client  completer
	model   string
	baseURL string
}

// OpenAIOption configures an OpenAI tier.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the completion model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at an OpenAI-compatible endpoint.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(o *OpenAI) {
		o.baseURL = strings.TrimSuffix(url, "/")
	}
}

// withCompleter sets a custom completer (for testing).
func withCompleter(c completer) OpenAIOption {
	return func(o *OpenAI) {
		o.client = c
	}
}

// NewOpenAI creates an OpenAI tier from an API key.
// Returns ErrEmptyAPIKey if apiKey is empty.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}
	o := &OpenAI{model: defaultOpenAIModel}
	for _, opt := range opts {
		opt(o)
	}
	// Create the client after options are applied (base URL may be customized).
	if o.client == nil {
		cfg := openai.DefaultConfig(apiKey)
		if o.baseURL != "" {
			cfg.BaseURL = o.baseURL
		}
		o.client = openai.NewClientWithConfig(cfg)
	}
	return o, nil
}

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Summarize requests up to maxLength tokens and returns the trimmed text.
// The prompt asks for the format, so the output is not reformatted.
func (o *OpenAI) Summarize(ctx context.Context, text string, format Format, maxLength int) (string, error) {
	req := openai.CompletionRequest{
		Model:       o.model,
		Prompt:      buildPrompt(text, format),
		MaxTokens:   maxLength,
		Temperature: defaultHostedTemperature,
	}

	resp, err := o.client.CreateCompletion(ctx, req)
	if err != nil {
		return "", hostedError("OpenAI", classifyOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", hostedError("OpenAI", errors.New("no completion choices returned"))
	}
	return strings.TrimSpace(resp.Choices[0].Text), nil
}

// classifyOpenAIError maps OpenAI API errors to apierr sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests && strings.Contains(apiErr.Message, "quota") {
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		}
		if classified := apierr.FromStatus(apiErr.HTTPStatusCode, apiErr.Message); classified != nil {
			return classified
		}
	}
	return classifyContextError(err)
}
