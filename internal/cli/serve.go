package cli

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/quickrecap/internal/format"
	"github.com/alnah/quickrecap/internal/server"
)

// serveOptions holds the serve command flags.
type serveOptions struct {
	host    string
	port    int
	origins []string
	rpm     int
	timeout time.Duration
}

// ServeCmd creates the serve command.
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the JSON HTTP API used by the browser frontend.

Endpoints:
  GET  /health            Liveness and active summary tiers
  POST /api/summarize     {"youtube_url", "format", "max_length"}
  POST /api/transcript    {"youtube_url"}
  POST /api/video-info    {"youtube_url"}

The bind address defaults to HOST and PORT from the environment, then
0.0.0.0:5000. Press Ctrl+C once to drain in-flight requests, twice to
exit immediately.`,
		Example: `  quickrecap serve
  quickrecap serve --host 127.0.0.1 --port 8080
  quickrecap serve --cors-origin https://recap.example.com --rate-limit 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Bind host (default: $HOST or 0.0.0.0)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Bind port (default: $PORT or 5000)")
	cmd.Flags().StringSliceVar(&opts.origins, "cors-origin", nil, "Allowed CORS origin, repeatable (default: any)")
	cmd.Flags().IntVar(&opts.rpm, "rate-limit", server.DefaultRequestsPerMinute, "Requests per minute per server")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultRequestTimeout, "Per-request timeout")

	return cmd
}

func runServe(ctx context.Context, env *Env, opts serveOptions) error {
	// === VALIDATION (fail-fast) ===

	host := opts.host
	if host == "" {
		host = env.Getenv(EnvHost)
	}
	if host == "" {
		host = server.DefaultHost
	}

	port := opts.port
	if port == 0 {
		if v := env.Getenv(EnvPort); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s=%q is not a number: %w", EnvPort, v, ErrInvalidPort)
			}
			port = p
		} else {
			port = server.DefaultPort
		}
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535: %w", port, ErrInvalidPort)
	}

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = server.DefaultRequestTimeout
	}

	// === SETUP ===

	s, err := loadSetup(env, "")
	if err != nil {
		return err
	}
	defer s.Close()

	svc, err := newService(ctx, env, s, "")
	if err != nil {
		return err
	}

	handler, ctx := env.Interrupts(ctx)
	defer handler.Stop()

	cfg := server.Config{
		Host:              host,
		Port:              port,
		AllowedOrigins:    opts.origins,
		RequestsPerMinute: opts.rpm,
		RequestTimeout:    timeout,
	}

	// === RUN ===

	fmt.Fprintf(env.Stderr, "Listening on http://%s (tiers: %v, request timeout %s)\n",
		net.JoinHostPort(host, strconv.Itoa(port)), svc.Tiers(), format.DurationHuman(timeout))
	fmt.Fprintln(env.Stderr, "Press Ctrl+C to stop")

	if err := env.ServerRunner.Run(ctx, svc, cfg, s.log); err != nil {
		return err
	}

	if handler.WasInterrupted() {
		fmt.Fprintln(env.Stderr, "Server stopped.")
	}
	return nil
}
