package cli

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alnah/quickrecap/internal/config"
	"github.com/alnah/quickrecap/internal/server"
	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/transcript"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock SourceFactory + caption and metadata providers
// ---------------------------------------------------------------------------

type mockSourceFactory struct {
	captions *mockCaptions
	metadata *mockMetadata
	// NewMetadataErr is returned by NewMetadata when set.
	NewMetadataErr error

	mu            sync.Mutex
	languageCalls [][]string
	metadataKeys  []string
}

func (m *mockSourceFactory) NewCaptions(languages []string) transcript.Provider {
	m.mu.Lock()
	m.languageCalls = append(m.languageCalls, languages)
	m.mu.Unlock()

	if m.captions == nil {
		return &mockCaptions{}
	}
	return m.captions
}

func (m *mockSourceFactory) NewMetadata(_ context.Context, apiKey string, _ []string) (videoinfo.Provider, error) {
	m.mu.Lock()
	m.metadataKeys = append(m.metadataKeys, apiKey)
	m.mu.Unlock()

	if m.NewMetadataErr != nil {
		return nil, m.NewMetadataErr
	}
	if m.metadata == nil {
		return &mockMetadata{}, nil
	}
	return m.metadata, nil
}

func (m *mockSourceFactory) LanguageCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.languageCalls...)
}

func (m *mockSourceFactory) MetadataKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.metadataKeys...)
}

type mockCaptions struct {
	FragmentsFunc func(ctx context.Context, videoID string) ([]transcript.Fragment, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockCaptions) Fragments(ctx context.Context, videoID string) ([]transcript.Fragment, error) {
	m.mu.Lock()
	m.calls = append(m.calls, videoID)
	m.mu.Unlock()

	if m.FragmentsFunc != nil {
		return m.FragmentsFunc(ctx, videoID)
	}
	return []transcript.Fragment{
		{Text: "Go is a programming language."},
		{Text: "It was designed at Google."},
	}, nil
}

func (m *mockCaptions) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type mockMetadata struct {
	LookupFunc func(ctx context.Context, rawURL string) (videoinfo.Details, error)
}

func (m *mockMetadata) Lookup(ctx context.Context, rawURL string) (videoinfo.Details, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, rawURL)
	}
	return videoinfo.Details{
		Title:         "Go in 100 Seconds",
		Author:        "Fireship",
		LengthSeconds: 125,
		ThumbnailURL:  "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
	}, nil
}

// ---------------------------------------------------------------------------
// Mock TierFactory + tiers
// ---------------------------------------------------------------------------

type tierCall struct {
	Kind   string // "openai", "gemini" or "local"
	Key    string // API key, or token for local
	Target string // model, or URL for local
}

type mockTierFactory struct {
	NewOpenAIErr error
	local        *mockLocalTier

	mu    sync.Mutex
	calls []tierCall
}

func (m *mockTierFactory) record(c tierCall) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

func (m *mockTierFactory) NewOpenAI(apiKey, model string) (summary.Tier, error) {
	m.record(tierCall{Kind: "openai", Key: apiKey, Target: model})
	if m.NewOpenAIErr != nil {
		return nil, m.NewOpenAIErr
	}
	return &mockTier{name: "openai"}, nil
}

func (m *mockTierFactory) NewGemini(_ context.Context, apiKey, model string) (summary.Tier, error) {
	m.record(tierCall{Kind: "gemini", Key: apiKey, Target: model})
	return &mockTier{name: "gemini"}, nil
}

func (m *mockTierFactory) NewLocal(url, token string) (LocalTier, error) {
	m.record(tierCall{Kind: "local", Key: token, Target: url})
	if m.local == nil {
		return &mockLocalTier{mockTier: mockTier{name: "local"}}, nil
	}
	return m.local, nil
}

func (m *mockTierFactory) Calls() []tierCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tierCall(nil), m.calls...)
}

type mockTier struct {
	name string
	// SummarizeFunc overrides the canned "summary from <name>" output.
	SummarizeFunc func(ctx context.Context, text string, format summary.Format, maxLength int) (string, error)
}

func (m *mockTier) Name() string { return m.name }

func (m *mockTier) Summarize(ctx context.Context, text string, format summary.Format, maxLength int) (string, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text, format, maxLength)
	}
	return "summary from " + m.name, nil
}

type mockLocalTier struct {
	mockTier
	ProbeErr error
}

func (m *mockLocalTier) Probe(context.Context) error { return m.ProbeErr }

// ---------------------------------------------------------------------------
// Mock ServerRunner
// ---------------------------------------------------------------------------

type mockServerRunner struct {
	RunFunc func(ctx context.Context, r server.Recapper, cfg server.Config) error

	mu    sync.Mutex
	calls []server.Config
}

func (m *mockServerRunner) Run(ctx context.Context, r server.Recapper, cfg server.Config, _ *logrus.Logger) error {
	m.mu.Lock()
	m.calls = append(m.calls, cfg)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, r, cfg)
	}
	return nil
}

func (m *mockServerRunner) Calls() []server.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]server.Config(nil), m.calls...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*mockConfigLoader)(nil)
	_ SourceFactory = (*mockSourceFactory)(nil)
	_ TierFactory   = (*mockTierFactory)(nil)
	_ ServerRunner  = (*mockServerRunner)(nil)
	_ LocalTier     = (*mockLocalTier)(nil)
)
