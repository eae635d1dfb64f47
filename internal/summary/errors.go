package summary

import "errors"

// Sentinel errors. Every error returned by this package is an *Error whose
// Kind is one of these.
var (
	// ErrNoInput indicates empty input text.
	ErrNoInput = errors.New("no input text")

	// ErrInvalidFormat indicates an unknown summary format name.
	ErrInvalidFormat = errors.New("invalid summary format")

	// ErrHosted indicates the hosted LLM tier failed.
	ErrHosted = errors.New("hosted model error")

	// ErrLocal indicates the local model tier failed.
	ErrLocal = errors.New("local model error")

	// ErrGenerationFailed indicates every tier failed.
	ErrGenerationFailed = errors.New("summary generation failed")

	// ErrEmptyAPIKey indicates a hosted tier was built without a credential.
	ErrEmptyAPIKey = errors.New("API key is required")

	// ErrEmptyURL indicates the local tier was built without an endpoint.
	ErrEmptyURL = errors.New("local model URL is required")
)

const msgNoInput = "No text provided to summarize."

// Error carries a user-facing message plus the kind and cause.
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
