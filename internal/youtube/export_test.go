package youtube

// Exports for testing.

var WithHTTPClient = withHTTPClient

var (
	ParseTimedText       = parseTimedText
	ParseDurationSeconds = parseDurationSeconds
	AcceptLanguage       = acceptLanguage
)
