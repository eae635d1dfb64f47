package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/quickrecap/internal/apierr"
)

// defaultHostedTemperature is the sampling temperature of hosted tiers.
const defaultHostedTemperature = 0.5

// buildPrompt returns the instruction sent to hosted LLMs.
func buildPrompt(text string, format Format) string {
	return fmt.Sprintf("Summarize the following transcript %s, capturing the key points and main ideas:\n\n%s",
		format.instruction(), text)
}

// hostedError wraps a hosted tier failure. provider is the display name
// used in the message ("OpenAI", "Gemini").
func hostedError(provider string, err error) *Error {
	return &Error{
		Kind:    ErrHosted,
		Message: fmt.Sprintf("%s API error: %s", provider, err),
		Err:     err,
	}
}

// classifyContextError maps deadline errors to apierr.ErrTimeout.
func classifyContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}
	return err
}
