// Package videoid extracts the 11-character video identifier from the URL
// shapes the hosting platform uses (watch, short link, embed, legacy path).
package videoid

import (
	"errors"
	"regexp"
)

// ErrInvalidURL indicates that no known URL shape matched.
var ErrInvalidURL = errors.New("invalid video URL")

// InvalidURLError carries the URL that could not be parsed.
// It matches ErrInvalidURL with errors.Is.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return "Could not extract video ID from URL: " + e.URL
}

// Is reports whether target is ErrInvalidURL.
func (e *InvalidURLError) Is(target error) bool {
	return target == ErrInvalidURL
}

// patterns are tried in order; the first capture group that matches wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/v/)([a-zA-Z0-9_-]{11})`),
}

// Extract returns the video identifier found in rawURL.
// Returns *InvalidURLError if no pattern matches.
func Extract(rawURL string) (string, error) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(rawURL); len(m) == 2 {
			return m[1], nil
		}
	}
	return "", &InvalidURLError{URL: rawURL}
}

// WatchURL returns the canonical watch page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
