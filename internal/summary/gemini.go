package summary

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/alnah/quickrecap/internal/apierr"
)

const defaultGeminiModel = "gemini-2.0-flash"

// contentGenerator is the subset of *genai.Models used by the Gemini tier.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Compile-time interface compliance check.
var _ Tier = (*Gemini)(nil)

// Gemini summarizes through the Gemini API.
type Gemini struct {
	models contentGenerator
	model  string
}

// GeminiOption configures a Gemini tier.
type GeminiOption func(*Gemini)

// WithGeminiModel sets the model name.
func WithGeminiModel(model string) GeminiOption {
	return func(g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// withContentGenerator sets a custom generator (for testing).
func withContentGenerator(cg contentGenerator) GeminiOption {
	return func(g *Gemini) {
		g.models = cg
	}
}

// NewGemini creates a Gemini tier from an API key.
// Returns ErrEmptyAPIKey if apiKey is empty.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &Gemini{
		models: client.Models,
		model:  defaultGeminiModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name returns "gemini".
func (g *Gemini) Name() string { return "gemini" }

// Summarize requests up to maxLength output tokens and returns the trimmed text.
func (g *Gemini) Summarize(ctx context.Context, text string, format Format, maxLength int) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(buildPrompt(text, format))}, genai.RoleUser),
	}
	temperature := float32(defaultHostedTemperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(min(maxLength, math.MaxInt32)),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", hostedError("Gemini", classifyGeminiError(err))
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", hostedError("Gemini", errors.New("empty response"))
	}
	return out, nil
}

// classifyGeminiError maps Gemini API errors to apierr sentinels.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests && strings.Contains(strings.ToLower(apiErr.Message), "quota") {
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		}
		if classified := apierr.FromStatus(apiErr.Code, apiErr.Message); classified != nil {
			return classified
		}
	}
	return classifyContextError(err)
}
