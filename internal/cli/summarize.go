package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/quickrecap/internal/recap"
	"github.com/alnah/quickrecap/internal/summary"
	"github.com/alnah/quickrecap/internal/videoid"
)

// summarizeOptions holds the summarize command flags.
type summarizeOptions struct {
	url       string
	format    string
	maxLength int
	provider  string
	languages string
	output    string
}

// SummarizeCmd creates the summarize command.
// The env parameter provides injectable dependencies for testing.
func SummarizeCmd(env *Env) *cobra.Command {
	var opts summarizeOptions

	cmd := &cobra.Command{
		Use:   "summarize <youtube-url>",
		Short: "Summarize a YouTube video",
		Long: `Summarize a YouTube video from its captions.

The transcript is condensed by the first available tier: the hosted model
(OpenAI or Gemini, when its API key is set), then the local model server
(when local-model-url is configured and reachable), then a built-in
extractive summary that always works.

The summary is printed to stdout. With --output it is written as Markdown
to a new file, resolved against the output-dir setting.`,
		Example: `  quickrecap summarize https://www.youtube.com/watch?v=dQw4w9WgXcQ
  quickrecap summarize https://youtu.be/dQw4w9WgXcQ -f paragraph -n 300
  quickrecap summarize <url> --provider gemini -l fr,en
  quickrecap summarize <url> -o recap.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.url = args[0]
			return runSummarize(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", summary.FormatBullets, "Summary format: bullets, paragraph")
	cmd.Flags().IntVarP(&opts.maxLength, "max-length", "n", summary.DefaultMaxLength, "Maximum summary length in tokens")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Hosted provider: openai, gemini (default from config, then openai)")
	cmd.Flags().StringVarP(&opts.languages, "languages", "l", "", "Caption language preference, comma-separated (e.g., fr,en)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the summary to a Markdown file")

	return cmd
}

// runSummarize executes the recap pipeline.
// Validation order: url -> format -> max-length -> provider -> setup
func runSummarize(ctx context.Context, env *Env, opts summarizeOptions) error {
	// === VALIDATION (fail-fast) ===

	url := strings.TrimSpace(opts.url)
	if _, err := videoid.Extract(url); err != nil {
		return err
	}

	f, err := summary.ParseFormat(strings.ToLower(opts.format))
	if err != nil {
		return err
	}

	if opts.maxLength <= 0 {
		return fmt.Errorf("--max-length must be positive, got %d: %w", opts.maxLength, ErrInvalidMaxLength)
	}

	if _, err := ParseProvider(opts.provider); err != nil {
		return err
	}

	// === SETUP ===

	s, err := loadSetup(env, opts.languages)
	if err != nil {
		return err
	}
	defer s.Close()

	svc, err := newService(ctx, env, s, opts.provider)
	if err != nil {
		return err
	}

	// === RUN ===

	fmt.Fprintf(env.Stderr, "Summarizing with %s...\n", strings.Join(svc.Tiers(), " -> "))

	res, err := svc.Summarize(ctx, recap.Request{URL: url, Format: f, MaxLength: opts.maxLength})
	if err != nil {
		return err
	}

	if opts.output == "" {
		fmt.Fprintf(env.Stderr, "%s\n\n", res.VideoTitle)
		return emit(env, res.Summary, "", "")
	}
	return emit(env, renderMarkdown(res), opts.output, s.cfg.OutputDir)
}

// renderMarkdown formats a recap as a Markdown document.
func renderMarkdown(res recap.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", res.VideoTitle)
	fmt.Fprintf(&b, "Source: <%s>\n\n", res.VideoURL)
	b.WriteString(res.Summary)
	return b.String()
}
