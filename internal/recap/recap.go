// Package recap composes transcript extraction, video metadata and
// summarization into the end-to-end "summarize this video" operation.
package recap

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/videoid"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// DefaultTitle is used when metadata cannot be fetched.
const DefaultTitle = "YouTube Video"

// Transcriber returns the full transcript of a video URL.
type Transcriber interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// InfoFetcher returns the metadata of a video URL.
type InfoFetcher interface {
	Get(ctx context.Context, rawURL string) (videoinfo.Info, error)
}

// Summarizer condenses text through the tier chain.
type Summarizer interface {
	Summarize(ctx context.Context, text string, format summary.Format, maxLength int) (string, error)
	Tiers() []string
}

// Request describes one recap.
type Request struct {
	URL       string
	Format    summary.Format
	MaxLength int
}

// Result is a generated recap.
type Result struct {
	Summary    string
	VideoTitle string
	VideoURL   string
	VideoID    string
	// Info is nil when metadata lookup failed.
	Info *videoinfo.Info
}

// Service runs recaps. It is safe for concurrent use when its dependencies are.
type Service struct {
	transcripts Transcriber
	info        InfoFetcher
	summaries   Summarizer
	log         logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for non-fatal metadata failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Service.
func New(t Transcriber, i InfoFetcher, s Summarizer, opts ...Option) *Service {
	svc := &Service{
		transcripts: t,
		info:        i,
		summaries:   s,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Summarize fetches the transcript and the metadata concurrently, then
// summarizes the transcript. A metadata failure is logged and the title
// falls back to DefaultTitle; a transcript failure aborts.
// Errors are the *Error types of the transcript and summary packages.
func (s *Service) Summarize(ctx context.Context, req Request) (Result, error) {
	var (
		text    string
		info    videoinfo.Info
		infoErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		text, err = s.transcripts.Get(gctx, req.URL)
		return err
	})
	g.Go(func() error {
		// Never fails the group: metadata is optional.
		info, infoErr = s.info.Get(gctx, req.URL)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	out, err := s.summaries.Summarize(ctx, text, req.Format, req.MaxLength)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Summary:    out,
		VideoTitle: DefaultTitle,
		VideoURL:   req.URL,
	}
	if id, err := videoid.Extract(req.URL); err == nil {
		res.VideoID = id
	}
	if infoErr != nil {
		s.log.WithFields(logrus.Fields{
			"url":   req.URL,
			"error": infoErr.Error(),
		}).Warn("video info unavailable, using default title")
		return res, nil
	}
	if info.Title != "" {
		res.VideoTitle = info.Title
	}
	res.Info = &info
	return res, nil
}

// Transcript returns the transcript of the video at rawURL.
func (s *Service) Transcript(ctx context.Context, rawURL string) (string, error) {
	return s.transcripts.Get(ctx, rawURL)
}

// VideoInfo returns the metadata of the video at rawURL.
func (s *Service) VideoInfo(ctx context.Context, rawURL string) (videoinfo.Info, error) {
	return s.info.Get(ctx, rawURL)
}

// Tiers returns the active summary tiers in attempt order.
func (s *Service) Tiers() []string {
	return s.summaries.Tiers()
}
