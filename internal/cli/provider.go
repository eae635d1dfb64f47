package cli

import (
	"errors"
	"fmt"
)

// Provider names accepted by --provider and the provider config key.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Provider represents a validated hosted LLM provider.
// Zero value is unset; use ParseProvider or the pre-parsed values.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// ErrInvalidProvider indicates an invalid provider name was specified.
var ErrInvalidProvider = errors.New("invalid provider")

// Pre-parsed providers.
var (
	OpenAIProvider = Provider{name: ProviderOpenAI}
	GeminiProvider = Provider{name: ProviderGemini}
)

var validProviders = map[string]bool{
	ProviderOpenAI: true,
	ProviderGemini: true,
}

// ParseProvider validates and parses a provider name string.
// Empty string returns the zero Provider, which OrDefault resolves.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, nil
	}
	if !validProviders[s] {
		return Provider{}, fmt.Errorf("unknown provider %q (use 'openai' or 'gemini'): %w", s, ErrInvalidProvider)
	}
	return Provider{name: s}, nil
}

// String returns the provider name, or "" for the zero value.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if no provider was chosen.
func (p Provider) IsZero() bool {
	return p.name == ""
}

// OrDefault returns the provider, or OpenAIProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return OpenAIProvider
	}
	return p
}

// APIKeyEnv returns the environment variable holding the provider's key.
func (p Provider) APIKeyEnv() string {
	if p.OrDefault() == GeminiProvider {
		return EnvGeminiAPIKey
	}
	return EnvOpenAIAPIKey
}
