package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/quickrecap/internal/config"
	"github.com/alnah/quickrecap/internal/lang"
	"github.com/alnah/quickrecap/internal/logging"
	"github.com/alnah/quickrecap/internal/recap"
	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/transcript"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// probeTimeout bounds the local model health check at startup.
const probeTimeout = 5 * time.Second

// setup is the state every command resolves before doing work.
type setup struct {
	cfg       config.Config
	log       *logrus.Logger
	closer    io.Closer
	languages []string
}

// Close releases the log file, if any.
func (s *setup) Close() {
	_ = s.closer.Close()
}

// loadSetup reads the config, builds the logger and resolves the caption
// language preference. languages overrides the languages setting when set.
// A config that fails to load is reported and replaced by defaults.
func loadSetup(env *Env, languages string) (*setup, error) {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   config.ExpandPath(cfg.LogFile),
		Out:    env.Stderr,
	})
	if err != nil {
		return nil, err
	}

	if languages == "" {
		languages = cfg.Languages
	}
	langs, err := lang.ParseList(languages)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &setup{cfg: cfg, log: logger, closer: closer, languages: langs}, nil
}

// newExtractor builds the transcript extractor over the caption scraper.
func newExtractor(env *Env, s *setup) *transcript.Extractor {
	s.log.WithField("languages", s.languages).Debug("caption preference")
	return transcript.NewExtractor(env.SourceFactory.NewCaptions(s.languages))
}

// newFetcher builds the metadata fetcher. The Data API is used when
// YOUTUBE_API_KEY is set, the watch page otherwise.
func newFetcher(ctx context.Context, env *Env, s *setup) (*videoinfo.Fetcher, error) {
	key := env.Getenv(EnvYouTubeAPIKey)
	p, err := env.SourceFactory.NewMetadata(ctx, key, s.languages)
	if err != nil {
		return nil, err
	}
	if key != "" {
		s.log.Debug("using YouTube Data API for metadata")
	}
	return videoinfo.NewFetcher(p), nil
}

// newGenerator assembles the summary tier chain from the environment.
// providerFlag is the --provider value; when it is set a missing API key is
// an error, otherwise the hosted tier is simply left out.
func newGenerator(ctx context.Context, env *Env, s *setup, providerFlag string) (*summary.Generator, error) {
	var b summary.Backends

	hosted, err := hostedTier(ctx, env, s, providerFlag)
	if err != nil {
		return nil, err
	}
	b.Hosted = hosted

	if url := s.cfg.LocalModelURL; url != "" {
		local, err := env.TierFactory.NewLocal(url, env.Getenv(EnvLocalModelToken))
		if err != nil {
			return nil, err
		}
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err = local.Probe(probeCtx)
		cancel()
		if err != nil {
			s.log.WithError(err).WithField("url", url).Warn("local model unavailable, tier disabled")
		} else {
			s.log.WithField("url", url).Debug("local model ready")
			b.Local = local
		}
	}

	gen := summary.New(b, summary.WithLogger(s.log))
	s.log.WithField("tiers", gen.Tiers()).Debug("summary tiers assembled")
	return gen, nil
}

func hostedTier(ctx context.Context, env *Env, s *setup, providerFlag string) (summary.Tier, error) {
	name := providerFlag
	if name == "" {
		name = s.cfg.Provider
	}
	p, err := ParseProvider(name)
	if err != nil {
		return nil, err
	}
	p = p.OrDefault()

	key := env.Getenv(p.APIKeyEnv())
	if key == "" {
		if providerFlag != "" {
			return nil, fmt.Errorf("%w (set it with: export %s=...)", ErrAPIKeyMissing, p.APIKeyEnv())
		}
		s.log.WithField("provider", p.String()).Debug("no API key, hosted tier disabled")
		return nil, nil
	}

	switch p {
	case GeminiProvider:
		return env.TierFactory.NewGemini(ctx, key, s.cfg.GeminiModel)
	default:
		return env.TierFactory.NewOpenAI(key, s.cfg.OpenAIModel)
	}
}

// newService wires the full recap pipeline.
func newService(ctx context.Context, env *Env, s *setup, providerFlag string) (*recap.Service, error) {
	gen, err := newGenerator(ctx, env, s, providerFlag)
	if err != nil {
		return nil, err
	}
	fetcher, err := newFetcher(ctx, env, s)
	if err != nil {
		return nil, err
	}
	return recap.New(newExtractor(env, s), fetcher, gen, recap.WithLogger(s.log)), nil
}
