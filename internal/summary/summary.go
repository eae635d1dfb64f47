// Package summary condenses transcript text into bullet points or a paragraph.
//
// A Generator tries an ordered list of tiers: the hosted LLM, the local model
// server, then a heuristic that needs no model. Availability of the first two
// is decided once at startup and captured in Backends. A tier falls through to
// the next only when it returns an error.
package summary

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxLength is the output cap used when callers pass a non-positive value.
	DefaultMaxLength = 500

	// maxInputChars caps the input passed to any tier. Truncation is silent.
	maxInputChars = 4000
)

// Tier is one summarization strategy.
type Tier interface {
	// Name identifies the tier in logs and health output.
	Name() string
	// Summarize condenses text. text is non-empty and already truncated.
	Summarize(ctx context.Context, text string, format Format, maxLength int) (string, error)
}

// Backends holds the model tiers that were available at startup.
// A nil field means the tier is inactive.
type Backends struct {
	Hosted Tier
	Local  Tier
}

// Generator runs the tier chain.
// It holds no mutable state and is safe for concurrent use when its tiers are.
type Generator struct {
	tiers []Tier
	log   logrus.FieldLogger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used to report tier fallthrough.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// New builds the chain hosted -> local -> heuristic, skipping inactive tiers.
func New(b Backends, opts ...Option) *Generator {
	tiers := make([]Tier, 0, 3)
	if b.Hosted != nil {
		tiers = append(tiers, b.Hosted)
	}
	if b.Local != nil {
		tiers = append(tiers, b.Local)
	}
	tiers = append(tiers, Heuristic{})
	return newGenerator(tiers, opts...)
}

func newGenerator(tiers []Tier, opts ...Option) *Generator {
	g := &Generator{
		tiers: tiers,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tiers returns the names of the active tiers in attempt order.
func (g *Generator) Tiers() []string {
	names := make([]string, len(g.tiers))
	for i, t := range g.tiers {
		names[i] = t.Name()
	}
	return names
}

// Summarize condenses text using the first tier that succeeds.
// Returns ErrNoInput for empty text and ErrGenerationFailed when every tier
// fails or ctx is done. A zero format means Bullets.
func (g *Generator) Summarize(ctx context.Context, text string, format Format, maxLength int) (string, error) {
	if text == "" {
		return "", &Error{Kind: ErrNoInput, Message: msgNoInput}
	}
	text = truncate(text, maxInputChars)
	format = format.OrDefault()
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var last error
	for _, tier := range g.tiers {
		if err := ctx.Err(); err != nil {
			last = err
			break
		}
		out, err := tier.Summarize(ctx, text, format, maxLength)
		if err == nil {
			return out, nil
		}
		g.log.WithFields(logrus.Fields{
			"tier":  tier.Name(),
			"error": err.Error(),
		}).Warn("summary tier failed, falling back")
		last = err
	}

	if last == nil {
		last = fmt.Errorf("no summarization tier configured")
	}
	return "", &Error{
		Kind:    ErrGenerationFailed,
		Message: fmt.Sprintf("Failed to generate summary: %s", last),
		Err:     last,
	}
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
