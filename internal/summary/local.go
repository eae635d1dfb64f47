package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/quickrecap/internal/apierr"
)

// Local model server configuration.
const (
	// Output floor cap: min_length = min(maxMinLength, maxLength/2).
	maxMinLength = 100

	defaultLocalHTTPTimeout = 5 * time.Minute

	// Response size limit to prevent OOM from malformed responses (1MB).
	maxLocalResponseSize = 1 << 20

	probeText      = "The quick brown fox jumps over the lazy dog. The dog does not react. The fox leaves."
	probeMaxLength = 20
)

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance check.
var _ Tier = (*Local)(nil)

// Local summarizes through a locally hosted summarization model server
// speaking the Hugging Face inference protocol:
//
//	POST {"inputs": "...", "parameters": {"max_length": n, "min_length": m, "do_sample": false}}
//	200  [{"summary_text": "..."}]
type Local struct {
	url         string
	token       string
	httpTimeout time.Duration
	httpClient  httpDoer
}

// LocalOption configures a Local tier.
type LocalOption func(*Local)

// WithLocalToken sets a bearer token sent with every request.
func WithLocalToken(token string) LocalOption {
	return func(l *Local) {
		l.token = token
	}
}

// WithLocalHTTPTimeout sets the HTTP client timeout.
func WithLocalHTTPTimeout(timeout time.Duration) LocalOption {
	return func(l *Local) {
		if timeout > 0 {
			l.httpTimeout = timeout
		}
	}
}

// withLocalHTTPClient sets a custom HTTP client (for testing).
func withLocalHTTPClient(c httpDoer) LocalOption {
	return func(l *Local) {
		l.httpClient = c
	}
}

// NewLocal creates a Local tier for the model endpoint at url.
// Returns ErrEmptyURL if url is empty.
func NewLocal(url string, opts ...LocalOption) (*Local, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	l := &Local{
		url:         url,
		httpTimeout: defaultLocalHTTPTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.httpClient == nil {
		l.httpClient = &http.Client{Timeout: l.httpTimeout}
	}
	return l, nil
}

// Name returns "local".
func (l *Local) Name() string { return "local" }

// Probe runs one tiny summarization to confirm the model is loaded.
// Startup code enables the tier only if Probe succeeds.
func (l *Local) Probe(ctx context.Context) error {
	if _, err := l.generate(ctx, probeText, probeMaxLength); err != nil {
		return fmt.Errorf("local model probe failed: %w", err)
	}
	return nil
}

// Summarize runs the model with greedy decoding. Bullets are produced by
// re-splitting the model's plain text into sentences.
func (l *Local) Summarize(ctx context.Context, text string, format Format, maxLength int) (string, error) {
	out, err := l.generate(ctx, text, maxLength)
	if err != nil {
		return "", &Error{
			Kind:    ErrLocal,
			Message: fmt.Sprintf("Local model error: %s", err),
			Err:     err,
		}
	}
	if format.OrDefault() == Bullets {
		return bulletize(out), nil
	}
	return out, nil
}

// localRequest is the inference request body.
type localRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters localParameters `json:"parameters"`
}

type localParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

// localResult is one element of the inference response array.
type localResult struct {
	SummaryText string `json:"summary_text"`
}

// localErrorResponse is the error body of the inference server.
type localErrorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// generate calls the model server and returns the first summary text.
func (l *Local) generate(ctx context.Context, text string, maxLength int) (_ string, err error) {
	body, err := json.Marshal(localRequest{
		Inputs: text,
		Parameters: localParameters{
			MaxLength: maxLength,
			MinLength: min(maxMinLength, maxLength/2),
			DoSample:  false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", classifyContextError(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxLocalResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if err := parseLocalError(resp.StatusCode, respBody); err != nil {
			return "", err
		}
		return "", fmt.Errorf("unexpected status %d from model server", resp.StatusCode)
	}

	var results []localResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(results) == 0 {
		return "", errors.New("empty response from model server")
	}
	return results[0].SummaryText, nil
}

// parseLocalError classifies an error response of the model server.
func parseLocalError(statusCode int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var errResp localErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		msg = errResp.Error
		if errResp.EstimatedTime > 0 {
			msg = fmt.Sprintf("%s (ready in ~%.0fs)", msg, errResp.EstimatedTime)
		}
	}
	return apierr.FromStatus(statusCode, msg)
}
