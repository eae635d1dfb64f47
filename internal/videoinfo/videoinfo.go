// Package videoinfo fetches descriptive metadata for a video URL.
package videoinfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/quickrecap/internal/videoid"
)

// ErrVideoInfo is the single failure kind of this package.
var ErrVideoInfo = errors.New("video info error")

// Error wraps every failure of Fetcher.Get.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes ErrVideoInfo and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{ErrVideoInfo, e.Err}
}

func wrap(err error) *Error {
	return &Error{
		Message: fmt.Sprintf("Failed to extract video information: %s", err),
		Err:     err,
	}
}

// Info is the metadata record returned to callers.
type Info struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Length       int    `json:"length"` // seconds
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description"`
}

// Details is what a Provider knows about a video.
type Details struct {
	Title         string
	Author        string
	LengthSeconds int
	ThumbnailURL  string
	Description   string
}

// Provider looks up a video by its raw URL.
type Provider interface {
	Lookup(ctx context.Context, rawURL string) (Details, error)
}

// Fetcher validates URLs and reads metadata from a Provider.
type Fetcher struct {
	provider Provider
}

// NewFetcher creates a Fetcher backed by p.
func NewFetcher(p Provider) *Fetcher {
	return &Fetcher{provider: p}
}

// Get returns the metadata of the video at rawURL.
// The identifier is validated before the provider is called.
// All errors are *Error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (Info, error) {
	id, err := videoid.Extract(rawURL)
	if err != nil {
		return Info{}, wrap(err)
	}

	d, err := f.provider.Lookup(ctx, rawURL)
	if err != nil {
		return Info{}, wrap(err)
	}

	return Info{
		ID:           id,
		Title:        d.Title,
		Author:       d.Author,
		Length:       d.LengthSeconds,
		ThumbnailURL: d.ThumbnailURL,
		Description:  d.Description,
	}, nil
}
