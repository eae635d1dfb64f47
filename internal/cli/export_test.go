package cli

// Export internal functions for testing.

// RunSummarize exports runSummarize for testing.
var RunSummarize = runSummarize

// SummarizeOptions exports summarizeOptions for testing.
type SummarizeOptions = summarizeOptions

// RunTranscript exports runTranscript for testing.
var RunTranscript = runTranscript

// TranscriptOptions exports transcriptOptions for testing.
type TranscriptOptions = transcriptOptions

// RunInfo exports runInfo for testing.
var RunInfo = runInfo

// RunServe exports runServe for testing.
var RunServe = runServe

// ServeOptions exports serveOptions for testing.
type ServeOptions = serveOptions

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// ValidateConfigValue exports validateConfigValue for testing.
var ValidateConfigValue = validateConfigValue

// RenderMarkdown exports renderMarkdown for testing.
var RenderMarkdown = renderMarkdown

// WriteFileAtomic exports writeFileAtomic for testing.
var WriteFileAtomic = writeFileAtomic
