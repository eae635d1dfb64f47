package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/quickrecap/internal/format"
	"github.com/alnah/quickrecap/internal/videoid"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// InfoCmd creates the info command.
// The env parameter provides injectable dependencies for testing.
func InfoCmd(env *Env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <youtube-url>",
		Short: "Show the metadata of a YouTube video",
		Long: `Show the title, author, length and thumbnail of a YouTube video.

Metadata comes from the YouTube Data API when YOUTUBE_API_KEY is set,
from the public watch page otherwise.`,
		Example: `  quickrecap info https://www.youtube.com/watch?v=dQw4w9WgXcQ
  quickrecap info https://youtu.be/dQw4w9WgXcQ --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), env, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the metadata as JSON")

	return cmd
}

func runInfo(ctx context.Context, env *Env, rawURL string, asJSON bool) error {
	url := strings.TrimSpace(rawURL)
	if _, err := videoid.Extract(url); err != nil {
		return err
	}

	s, err := loadSetup(env, "")
	if err != nil {
		return err
	}
	defer s.Close()

	fetcher, err := newFetcher(ctx, env, s)
	if err != nil {
		return err
	}

	info, err := fetcher.Get(ctx, url)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	printInfo(env, info)
	return nil
}

func printInfo(env *Env, info videoinfo.Info) {
	fmt.Fprintf(env.Stdout, "Title:     %s\n", info.Title)
	fmt.Fprintf(env.Stdout, "Author:    %s\n", info.Author)
	fmt.Fprintf(env.Stdout, "Length:    %s\n", format.Duration(time.Duration(info.Length)*time.Second))
	fmt.Fprintf(env.Stdout, "ID:        %s\n", info.ID)
	if info.ThumbnailURL != "" {
		fmt.Fprintf(env.Stdout, "Thumbnail: %s\n", info.ThumbnailURL)
	}
	if info.Description != "" {
		fmt.Fprintf(env.Stdout, "\n%s\n", info.Description)
	}
}
