package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/alnah/quickrecap/internal/recap"
	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/transcript"
	"github.com/alnah/quickrecap/internal/videoid"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgMissingURL       = "youtube_url is required"
	msgInvalidMaxLength = "max_length must be a positive integer"
	msgTimeout          = "Request timed out"
	msgInternal         = "Internal server error"
)

type videoRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

type summarizeRequest struct {
	YouTubeURL string `json:"youtube_url"`
	Format     string `json:"format"`
	MaxLength  int    `json:"max_length"`
}

type summarizeResponse struct {
	Summary    string `json:"summary"`
	VideoTitle string `json:"videoTitle"`
	VideoURL   string `json:"videoUrl"`
}

type transcriptResponse struct {
	VideoID    string `json:"video_id"`
	Transcript string `json:"transcript"`
}

type healthResponse struct {
	Status string   `json:"status"`
	Tiers  []string `json:"tiers"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Tiers: s.recap.Tiers()})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	url := strings.TrimSpace(req.YouTubeURL)
	if url == "" {
		writeError(w, http.StatusBadRequest, msgMissingURL)
		return
	}
	format, err := summary.ParseFormat(strings.ToLower(strings.TrimSpace(req.Format)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.MaxLength < 0 {
		writeError(w, http.StatusBadRequest, msgInvalidMaxLength)
		return
	}

	res, err := s.recap.Summarize(r.Context(), recap.Request{
		URL:       url,
		Format:    format,
		MaxLength: req.MaxLength,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{
		Summary:    res.Summary,
		VideoTitle: res.VideoTitle,
		VideoURL:   res.VideoURL,
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	url, ok := decodeURL(w, r)
	if !ok {
		return
	}
	text, err := s.recap.Transcript(r.Context(), url)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, _ := videoid.Extract(url)
	writeJSON(w, http.StatusOK, transcriptResponse{VideoID: id, Transcript: text})
}

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	url, ok := decodeURL(w, r)
	if !ok {
		return
	}
	info, err := s.recap.VideoInfo(r.Context(), url)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// fail logs err and writes the matching status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := s.log.WithError(err).WithField("path", r.URL.Path)
	if id := RequestIDFrom(r.Context()); id != "" {
		entry = entry.WithField("request_id", id)
	}
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	msg := err.Error()
	if status == http.StatusGatewayTimeout {
		msg = msgTimeout
	}
	writeError(w, status, msg)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, transcript.ErrNoTranscript),
		errors.Is(err, transcript.ErrDisabled),
		errors.Is(err, transcript.ErrUnavailable),
		errors.Is(err, transcript.ErrProvider),
		errors.Is(err, transcript.ErrEmpty),
		errors.Is(err, videoinfo.ErrVideoInfo),
		errors.Is(err, summary.ErrInvalidFormat),
		errors.Is(err, summary.ErrNoInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req videoRequest
	if !decodeBody(w, r, &req) {
		return "", false
	}
	url := strings.TrimSpace(req.YouTubeURL)
	if url == "" {
		writeError(w, http.StatusBadRequest, msgMissingURL)
		return "", false
	}
	return url, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Detail: msg})
}
