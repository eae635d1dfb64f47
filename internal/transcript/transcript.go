// Package transcript turns a video URL into a single transcript string.
//
// Caption data comes from a Provider; the Extractor only parses the URL,
// joins fragments and maps failures to the Error kinds in errors.go.
package transcript

import (
	"context"
	"strings"
	"time"

	"github.com/alnah/quickrecap/internal/videoid"
)

// Fragment is one timed caption unit.
type Fragment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

// Provider returns the caption fragments of a video in display order.
type Provider interface {
	Fragments(ctx context.Context, videoID string) ([]Fragment, error)
}

// Extractor fetches and joins transcripts.
type Extractor struct {
	provider Provider
}

// NewExtractor creates an Extractor backed by p.
func NewExtractor(p Provider) *Extractor {
	return &Extractor{provider: p}
}

// Get returns the transcript of the video at rawURL.
// All errors are *Error.
func (e *Extractor) Get(ctx context.Context, rawURL string) (string, error) {
	id, err := videoid.Extract(rawURL)
	if err != nil {
		return "", classify(err)
	}

	fragments, err := e.provider.Fragments(ctx, id)
	if err != nil {
		return "", classify(err)
	}

	text := Join(fragments)
	if text == "" {
		return "", &Error{Kind: ErrEmpty, Message: msgEmpty}
	}
	return text, nil
}

// Join concatenates fragment texts with single spaces, preserving order.
func Join(fragments []Fragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}
