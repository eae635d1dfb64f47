package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates an explicitly requested provider has no API key.
	ErrAPIKeyMissing = errors.New("API key environment variable not set")

	// ErrInvalidMaxLength indicates a non-positive --max-length.
	ErrInvalidMaxLength = errors.New("invalid max length")

	// ErrInvalidPort indicates a port outside 1-65535.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidConfig indicates a config value that failed validation.
	ErrInvalidConfig = errors.New("invalid config value")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")
)
