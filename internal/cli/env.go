package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/quickrecap/internal/config"
	"github.com/alnah/quickrecap/internal/interrupt"
	"github.com/alnah/quickrecap/internal/server"
	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/transcript"
	"github.com/alnah/quickrecap/internal/videoinfo"
	"github.com/alnah/quickrecap/internal/youtube"
)

// Environment variables holding secrets and bind settings.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvYouTubeAPIKey   = "YOUTUBE_API_KEY"
	EnvLocalModelToken = "LOCAL_MODEL_TOKEN"
	EnvHost            = "HOST"
	EnvPort            = "PORT"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader  ConfigLoader
	SourceFactory SourceFactory
	TierFactory   TierFactory
	ServerRunner  ServerRunner
	Interrupts    func(parent context.Context) (*interrupt.Handler, context.Context)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// SourceFactory creates the caption and metadata providers.
type SourceFactory interface {
	NewCaptions(languages []string) transcript.Provider
	// NewMetadata returns the Data API provider when apiKey is set, the
	// watch-page scraper otherwise.
	NewMetadata(ctx context.Context, apiKey string, languages []string) (videoinfo.Provider, error)
}

// LocalTier is a summary tier that can be probed at startup.
type LocalTier interface {
	summary.Tier
	Probe(ctx context.Context) error
}

// TierFactory creates the model-backed summary tiers.
type TierFactory interface {
	NewOpenAI(apiKey, model string) (summary.Tier, error)
	NewGemini(ctx context.Context, apiKey, model string) (summary.Tier, error)
	NewLocal(url, token string) (LocalTier, error)
}

// ServerRunner serves the HTTP API until ctx is canceled.
type ServerRunner interface {
	Run(ctx context.Context, r server.Recapper, cfg server.Config, logger *logrus.Logger) error
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithSourceFactory sets the caption and metadata factory.
func WithSourceFactory(f SourceFactory) EnvOption {
	return func(e *Env) {
		e.SourceFactory = f
	}
}

// WithTierFactory sets the summary tier factory.
func WithTierFactory(f TierFactory) EnvOption {
	return func(e *Env) {
		e.TierFactory = f
	}
}

// WithServerRunner sets the HTTP server runner.
func WithServerRunner(r ServerRunner) EnvOption {
	return func(e *Env) {
		e.ServerRunner = r
	}
}

// WithInterrupts sets the interrupt handler constructor.
func WithInterrupts(fn func(parent context.Context) (*interrupt.Handler, context.Context)) EnvOption {
	return func(e *Env) {
		e.Interrupts = fn
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Getenv:        os.Getenv,
		Now:           time.Now,
		ConfigLoader:  &defaultConfigLoader{},
		SourceFactory: &defaultSourceFactory{},
		TierFactory:   &defaultTierFactory{},
		ServerRunner:  &defaultServerRunner{},
		Interrupts:    interrupt.NewHandler,
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultSourceFactory implements SourceFactory with the youtube package.
type defaultSourceFactory struct{}

func (defaultSourceFactory) NewCaptions(languages []string) transcript.Provider {
	return youtube.New(youtube.WithLanguages(languages))
}

func (defaultSourceFactory) NewMetadata(ctx context.Context, apiKey string, languages []string) (videoinfo.Provider, error) {
	if apiKey != "" {
		api, err := youtube.NewDataAPI(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		return api, nil
	}
	return youtube.New(youtube.WithLanguages(languages)), nil
}

// defaultTierFactory implements TierFactory with the summary package.
type defaultTierFactory struct{}

func (defaultTierFactory) NewOpenAI(apiKey, model string) (summary.Tier, error) {
	var opts []summary.OpenAIOption
	if model != "" {
		opts = append(opts, summary.WithOpenAIModel(model))
	}
	tier, err := summary.NewOpenAI(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return tier, nil
}

func (defaultTierFactory) NewGemini(ctx context.Context, apiKey, model string) (summary.Tier, error) {
	var opts []summary.GeminiOption
	if model != "" {
		opts = append(opts, summary.WithGeminiModel(model))
	}
	tier, err := summary.NewGemini(ctx, apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return tier, nil
}

func (defaultTierFactory) NewLocal(url, token string) (LocalTier, error) {
	var opts []summary.LocalOption
	if token != "" {
		opts = append(opts, summary.WithLocalToken(token))
	}
	tier, err := summary.NewLocal(url, opts...)
	if err != nil {
		return nil, err
	}
	return tier, nil
}

// defaultServerRunner implements ServerRunner with the server package.
type defaultServerRunner struct{}

func (defaultServerRunner) Run(ctx context.Context, r server.Recapper, cfg server.Config, logger *logrus.Logger) error {
	return server.New(r, cfg, logger).Run(ctx)
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*defaultConfigLoader)(nil)
	_ SourceFactory = (*defaultSourceFactory)(nil)
	_ TierFactory   = (*defaultTierFactory)(nil)
	_ ServerRunner  = (*defaultServerRunner)(nil)
)
