package summary

import "fmt"

// Format names.
const (
	FormatBullets   = "bullets"
	FormatParagraph = "paragraph"
)

// Format is a validated summary output format.
// The zero value means "not set" and resolves to Bullets via OrDefault.
type Format struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Format{}

// Pre-parsed formats.
var (
	Bullets   = Format{name: FormatBullets}
	Paragraph = Format{name: FormatParagraph}
)

// ParseFormat validates a format name. Empty string returns Bullets.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", FormatBullets:
		return Bullets, nil
	case FormatParagraph:
		return Paragraph, nil
	default:
		return Format{}, fmt.Errorf("unknown format %q (use 'bullets' or 'paragraph'): %w", s, ErrInvalidFormat)
	}
}

// String returns the format name.
func (f Format) String() string {
	return f.name
}

// IsZero reports whether no format is set.
func (f Format) IsZero() bool {
	return f.name == ""
}

// OrDefault returns f, or Bullets if f is zero.
func (f Format) OrDefault() Format {
	if f.IsZero() {
		return Bullets
	}
	return f
}

// instruction is the format clause inserted into LLM prompts.
func (f Format) instruction() string {
	if f == Paragraph {
		return "in a concise paragraph"
	}
	return "in bullet points"
}
