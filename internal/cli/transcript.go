package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/quickrecap/internal/lang"
	"github.com/alnah/quickrecap/internal/videoid"
)

// transcriptOptions holds the transcript command flags.
type transcriptOptions struct {
	url       string
	languages string
	output    string
}

// TranscriptCmd creates the transcript command.
// The env parameter provides injectable dependencies for testing.
func TranscriptCmd(env *Env) *cobra.Command {
	var opts transcriptOptions

	cmd := &cobra.Command{
		Use:   "transcript <youtube-url>",
		Short: "Print the captions of a YouTube video",
		Long: `Print the full caption text of a YouTube video.

A manual track in a preferred language is used first, then an
auto-generated one. Fragments are joined with single spaces.`,
		Example: `  quickrecap transcript https://www.youtube.com/watch?v=dQw4w9WgXcQ
  quickrecap transcript https://youtu.be/dQw4w9WgXcQ -l de,en -o talk.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.url = args[0]
			return runTranscript(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.languages, "languages", "l", "", "Caption language preference, comma-separated (e.g., fr,en)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the transcript to a file")

	return cmd
}

func runTranscript(ctx context.Context, env *Env, opts transcriptOptions) error {
	url := strings.TrimSpace(opts.url)
	if _, err := videoid.Extract(url); err != nil {
		return err
	}

	s, err := loadSetup(env, opts.languages)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(env.Stderr, "Fetching captions (%s)...\n", lang.DisplayList(s.languages))

	text, err := newExtractor(env, s).Get(ctx, url)
	if err != nil {
		return err
	}

	return emit(env, text, opts.output, s.cfg.OutputDir)
}
