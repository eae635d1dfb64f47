package transcript

import (
	"errors"
	"fmt"
)

// Error kinds. Providers wrap ErrNoTranscript, ErrDisabled or ErrUnavailable
// to signal the matching condition; anything else is reported as ErrProvider.
var (
	// ErrNoTranscript indicates the video has no usable caption track.
	ErrNoTranscript = errors.New("no transcript found")

	// ErrDisabled indicates the uploader disabled captions.
	ErrDisabled = errors.New("transcripts disabled")

	// ErrUnavailable indicates the video is private, deleted or otherwise unplayable.
	ErrUnavailable = errors.New("video unavailable")

	// ErrProvider is the catch-all for provider failures.
	ErrProvider = errors.New("transcript provider error")

	// ErrEmpty indicates the joined transcript is empty.
	ErrEmpty = errors.New("transcript is empty")
)

// User-facing messages per kind.
const (
	msgNoTranscript = "No transcript found for this video. It might not have captions or automatic transcription available."
	msgDisabled     = "Transcripts are disabled for this video."
	msgUnavailable  = "The video is unavailable. It might be private or deleted."
	msgProvider     = "An error occurred while getting the transcript: %s"
	msgEmpty        = "The transcript is empty."
)

// Error is the only error type returned by Extractor.
// Error() is the user-facing message; errors.Is matches both Kind and the cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classify maps a provider error to a transcript Error.
func classify(err error) *Error {
	switch {
	case errors.Is(err, ErrNoTranscript):
		return &Error{Kind: ErrNoTranscript, Message: msgNoTranscript, Err: err}
	case errors.Is(err, ErrDisabled):
		return &Error{Kind: ErrDisabled, Message: msgDisabled, Err: err}
	case errors.Is(err, ErrUnavailable):
		return &Error{Kind: ErrUnavailable, Message: msgUnavailable, Err: err}
	default:
		return &Error{Kind: ErrProvider, Message: fmt.Sprintf(msgProvider, err), Err: err}
	}
}
