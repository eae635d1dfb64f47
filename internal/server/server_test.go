package server_test

// Notes:
// - Handlers are exercised through Server.Handler with httptest recorders so
//   the full middleware chain runs on every request.
// - The recap service is a hand-written mock.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/quickrecap/internal/logging"
	"github.com/alnah/quickrecap/internal/recap"
	"github.com/alnah/quickrecap/internal/server"
	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/transcript"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// ---------------------------------------------------------------------------
// Helpers - mock recap service
// ---------------------------------------------------------------------------

type mockRecapper struct {
	result     recap.Result
	text       string
	info       videoinfo.Info
	err        error
	tiers      []string
	panicOnUse bool

	mu       sync.Mutex
	requests []recap.Request
	urls     []string
}

func (m *mockRecapper) Summarize(_ context.Context, req recap.Request) (recap.Result, error) {
	if m.panicOnUse {
		panic("boom")
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.result, m.err
}

func (m *mockRecapper) Transcript(_ context.Context, rawURL string) (string, error) {
	m.mu.Lock()
	m.urls = append(m.urls, rawURL)
	m.mu.Unlock()
	return m.text, m.err
}

func (m *mockRecapper) VideoInfo(_ context.Context, rawURL string) (videoinfo.Info, error) {
	m.mu.Lock()
	m.urls = append(m.urls, rawURL)
	m.mu.Unlock()
	return m.info, m.err
}

func (m *mockRecapper) Tiers() []string { return m.tiers }

func (m *mockRecapper) Requests() []recap.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recap.Request(nil), m.requests...)
}

func newTestServer(m *mockRecapper, cfg server.Config) *server.Server {
	return server.New(m, cfg, logging.Discard())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["detail"]
}

// ---------------------------------------------------------------------------
// TestHealth
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockRecapper{tiers: []string{"openai", "heuristic"}}, server.Config{})
	rec := do(t, srv.Handler(), http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	got := decode[struct {
		Status string   `json:"status"`
		Tiers  []string `json:"tiers"`
	}](t, rec)
	if got.Status != "ok" || strings.Join(got.Tiers, ",") != "openai,heuristic" {
		t.Errorf("body = %+v", got)
	}
}

// ---------------------------------------------------------------------------
// TestSummarize
// ---------------------------------------------------------------------------

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		m := &mockRecapper{result: recap.Result{
			Summary:    "A paragraph.",
			VideoTitle: "Title",
			VideoURL:   testURL,
			VideoID:    "dQw4w9WgXcQ",
		}}
		srv := newTestServer(m, server.Config{})

		body := fmt.Sprintf(`{"youtube_url":" %s ","format":"Paragraph","max_length":300}`, testURL)
		rec := do(t, srv.Handler(), http.MethodPost, "/api/summarize", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		got := decode[map[string]string](t, rec)
		want := map[string]string{"summary": "A paragraph.", "videoTitle": "Title", "videoUrl": testURL}
		if len(got) != len(want) {
			t.Errorf("body = %v, want %v", got, want)
		}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("%s = %q, want %q", k, got[k], v)
			}
		}

		reqs := m.Requests()
		if len(reqs) != 1 {
			t.Fatalf("requests = %d, want 1", len(reqs))
		}
		if reqs[0] != (recap.Request{URL: testURL, Format: summary.Paragraph, MaxLength: 300}) {
			t.Errorf("request = %+v", reqs[0])
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		m := &mockRecapper{}
		srv := newTestServer(m, server.Config{})

		rec := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"youtube_url":"`+testURL+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		reqs := m.Requests()
		if len(reqs) != 1 || reqs[0].Format != summary.Bullets || reqs[0].MaxLength != 0 {
			t.Errorf("requests = %+v", reqs)
		}
	})
}

func TestSummarize_Errors(t *testing.T) {
	t.Parallel()

	noTranscript := &transcript.Error{
		Kind:    transcript.ErrNoTranscript,
		Message: "No transcript found for this video.",
	}
	generationFailed := &summary.Error{
		Kind:    summary.ErrGenerationFailed,
		Message: "Failed to generate summary: all down",
	}

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "malformed body",
			body:       `{"youtube_url":`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "Invalid request body",
		},
		{
			name:       "missing url",
			body:       `{"format":"bullets"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "youtube_url is required",
		},
		{
			name:       "blank url",
			body:       `{"youtube_url":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "youtube_url is required",
		},
		{
			name:       "invalid format",
			body:       `{"youtube_url":"` + testURL + `","format":"haiku"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: `unknown format "haiku" (use 'bullets' or 'paragraph'): invalid summary format`,
		},
		{
			name:       "negative max length",
			body:       `{"youtube_url":"` + testURL + `","max_length":-1}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "max_length must be a positive integer",
		},
		{
			name:       "transcript error",
			body:       `{"youtube_url":"` + testURL + `"}`,
			err:        noTranscript,
			wantStatus: http.StatusBadRequest,
			wantDetail: noTranscript.Message,
		},
		{
			name:       "summary error",
			body:       `{"youtube_url":"` + testURL + `"}`,
			err:        generationFailed,
			wantStatus: http.StatusInternalServerError,
			wantDetail: generationFailed.Message,
		},
		{
			name:       "deadline",
			body:       `{"youtube_url":"` + testURL + `"}`,
			err:        fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantDetail: "Request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(&mockRecapper{err: tt.err}, server.Config{})
			rec := do(t, srv.Handler(), http.MethodPost, "/api/summarize", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := detail(t, rec); got != tt.wantDetail {
				t.Errorf("detail = %q, want %q", got, tt.wantDetail)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTranscript / TestVideoInfo
// ---------------------------------------------------------------------------

func TestTranscript(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(&mockRecapper{text: "hello world"}, server.Config{})
		rec := do(t, srv.Handler(), http.MethodPost, "/api/transcript", `{"youtube_url":"https://youtu.be/dQw4w9WgXcQ"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		got := decode[map[string]string](t, rec)
		if got["video_id"] != "dQw4w9WgXcQ" || got["transcript"] != "hello world" {
			t.Errorf("body = %v", got)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()

		err := &transcript.Error{Kind: transcript.ErrDisabled, Message: "Transcripts are disabled for this video."}
		srv := newTestServer(&mockRecapper{err: err}, server.Config{})
		rec := do(t, srv.Handler(), http.MethodPost, "/api/transcript", `{"youtube_url":"`+testURL+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if got := detail(t, rec); got != err.Message {
			t.Errorf("detail = %q", got)
		}
	})
}

func TestVideoInfo(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		info := videoinfo.Info{ID: "dQw4w9WgXcQ", Title: "Title", Author: "Author", Length: 213}
		srv := newTestServer(&mockRecapper{info: info}, server.Config{})
		rec := do(t, srv.Handler(), http.MethodPost, "/api/video-info", `{"youtube_url":"`+testURL+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := decode[videoinfo.Info](t, rec); got != info {
			t.Errorf("info = %+v, want %+v", got, info)
		}
	})

	t.Run("metadata error", func(t *testing.T) {
		t.Parallel()

		err := &videoinfo.Error{Message: "Failed to extract video information: blocked", Err: errors.New("blocked")}
		srv := newTestServer(&mockRecapper{err: err}, server.Config{})
		rec := do(t, srv.Handler(), http.MethodPost, "/api/video-info", `{"youtube_url":"`+testURL+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if got := detail(t, rec); got != err.Message {
			t.Errorf("detail = %q", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRouting
// ---------------------------------------------------------------------------

func TestRouting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantDetail string
	}{
		{"wrong method", http.MethodGet, "/api/summarize", http.StatusMethodNotAllowed, "Method not allowed"},
		{"health post", http.MethodPost, "/health", http.StatusMethodNotAllowed, "Method not allowed"},
		{"unknown path", http.MethodGet, "/api/nope", http.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(&mockRecapper{}, server.Config{})
			rec := do(t, srv.Handler(), tt.method, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := detail(t, rec); got != tt.wantDetail {
				t.Errorf("detail = %q, want %q", got, tt.wantDetail)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockRecapper{}, server.Config{AllowedOrigins: []string{"http://localhost:3000"}})

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/api/summarize", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Allow-Origin = %q", got)
		}
		if rec.Code >= 300 {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockRecapper{}, server.Config{RequestsPerMinute: 1, Burst: 1})
	h := srv.Handler()

	if rec := do(t, h, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if got := detail(t, rec); got != "Rate limit exceeded" {
		t.Errorf("detail = %q", got)
	}
}

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockRecapper{panicOnUse: true}, server.Config{})
	rec := do(t, srv.Handler(), http.MethodPost, "/api/summarize", `{"youtube_url":"`+testURL+`"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := detail(t, rec); got != "Internal server error" {
		t.Errorf("detail = %q", got)
	}
}

func TestRequestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	srv := server.New(&mockRecapper{}, server.Config{}, logger)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log is not one JSON entry: %q", buf.String())
	}
	if entry["path"] != "/health" || entry["status"] != float64(200) || entry["request_id"] != "req-42" {
		t.Errorf("entry = %v", entry)
	}
}

// ---------------------------------------------------------------------------
// TestServer_Serve
// ---------------------------------------------------------------------------

func TestServer_Addr(t *testing.T) {
	t.Parallel()

	if got := newTestServer(&mockRecapper{}, server.Config{}).Addr(); got != "0.0.0.0:5000" {
		t.Errorf("default Addr() = %q", got)
	}
	if got := newTestServer(&mockRecapper{}, server.Config{Host: "127.0.0.1", Port: 8080}).Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := newTestServer(&mockRecapper{tiers: []string{"heuristic"}}, server.Config{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatalf("GET /health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
