// Package server exposes the recap service over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/alnah/quickrecap/internal/recap"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// Defaults applied by New to zero Config fields.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 5000
	DefaultRequestsPerMinute = 60
	DefaultBurst             = 10
	DefaultRequestTimeout    = 2 * time.Minute
	DefaultShutdownTimeout   = 10 * time.Second

	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 1 << 20
)

// Recapper is the service the handlers call.
type Recapper interface {
	Summarize(ctx context.Context, req recap.Request) (recap.Result, error)
	Transcript(ctx context.Context, rawURL string) (string, error)
	VideoInfo(ctx context.Context, rawURL string) (videoinfo.Info, error)
	Tiers() []string
}

var _ Recapper = (*recap.Service)(nil)

// Config holds the listener and middleware settings.
type Config struct {
	Host string
	Port int
	// AllowedOrigins lists the CORS origins; empty allows any origin.
	AllowedOrigins    []string
	RequestsPerMinute int
	Burst             int
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	return c
}

// Server serves the recap API.
type Server struct {
	recap   Recapper
	cfg     Config
	log     *logrus.Logger
	handler http.Handler
}

// New builds a Server. A nil logger uses the logrus standard logger.
func New(r Recapper, cfg Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		recap: r,
		cfg:   cfg.withDefaults(),
		log:   logger,
	}
	s.handler = s.buildHandler()
	return s
}

func (s *Server) buildHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/summarize", s.handleSummarize).Methods(http.MethodPost)
	r.HandleFunc("/api/transcript", s.handleTranscript).Methods(http.MethodPost)
	r.HandleFunc("/api/video-info", s.handleVideoInfo).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return Chain(r,
		Recovery(s.log),
		RequestID(),
		Logging(s.log),
		c.Handler,
		NewRateLimiter(s.cfg.RequestsPerMinute, s.cfg.Burst).Middleware,
		Timeout(s.cfg.RequestTimeout),
	)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run listens on Addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then drains
// in-flight requests for up to ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
