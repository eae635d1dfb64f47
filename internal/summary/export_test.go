package summary

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

// Option exports for dependency injection in tests.
var (
	WithCompleter        = withCompleter
	WithContentGenerator = withContentGenerator
	WithLocalHTTPClient  = withLocalHTTPClient
)

// Function exports for unit testing internal logic.
var (
	SplitSentences = splitSentences
	Bulletize      = bulletize
	BuildPrompt    = buildPrompt
	Truncate       = truncate
	NewGenerator   = newGenerator
)

// MaxInputChars exports maxInputChars for testing.
const MaxInputChars = maxInputChars
