package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/alnah/quickrecap/internal/config"
	"github.com/alnah/quickrecap/internal/interrupt"
)

// testURL is a well-formed watch URL accepted by videoid.Extract.
const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	sources      *mockSourceFactory
	tiers        *mockTierFactory
	server       *mockServerRunner
	stdout       *syncBuffer
	stderr       *syncBuffer
}

func newTestMocks() *testMocks {
	return &testMocks{
		configLoader: &mockConfigLoader{},
		sources:      &mockSourceFactory{},
		tiers:        &mockTierFactory{},
		server:       &mockServerRunner{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	getenv func(string) string
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

// withEnvVars replaces the default environment.
func withEnvVars(vars map[string]string) testEnvOption {
	return func(o *testEnvOptions) {
		o.getenv = staticEnv(vars)
	}
}

// withConfig makes the config loader return cfg.
func withConfig(cfg config.Config) testEnvOption {
	return func(o *testEnvOptions) {
		o.mocks.configLoader.LoadFunc = func() (config.Config, error) { return cfg, nil }
	}
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		getenv: defaultTestEnv,
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	m := options.mocks
	env := &Env{
		Stdout:        m.stdout,
		Stderr:        m.stderr,
		Getenv:        options.getenv,
		Now:           fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		ConfigLoader:  m.configLoader,
		SourceFactory: m.sources,
		TierFactory:   m.tiers,
		ServerRunner:  m.server,
		Interrupts:    quietInterrupts,
	}

	return env, m
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// quietInterrupts builds an interrupt handler that never sees a signal.
func quietInterrupts(parent context.Context) (*interrupt.Handler, context.Context) {
	return interrupt.NewHandlerWithOptions(parent, interrupt.Options{})
}

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv returns an OpenAI API key and nothing else.
func defaultTestEnv(key string) string {
	if key == EnvOpenAIAPIKey {
		return "test-openai-key"
	}
	return ""
}
