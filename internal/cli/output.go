package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/quickrecap/internal/config"
	"github.com/alnah/quickrecap/internal/format"
)

// warnNonMarkdownExtension writes a warning to w if path has an extension
// that is not .md. This alerts users that the output will be Markdown
// regardless of the file extension they specified.
func warnNonMarkdownExtension(w io.Writer, path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".md" {
		_, _ = fmt.Fprintf(w, "Warning: output is Markdown regardless of %s extension\n", ext)
	}
}

// emit prints content to stdout, or writes it to output resolved against
// outputDir when output is set.
func emit(env *Env, content, output, outputDir string) error {
	if output == "" {
		_, err := fmt.Fprintln(env.Stdout, content)
		return err
	}

	path := config.ResolveOutputPath(config.ExpandPath(output), config.ExpandPath(outputDir), "")
	warnNonMarkdownExtension(env.Stderr, path)

	if err := writeFileAtomic(path, content+"\n"); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Wrote %s (%s)\n", path, format.Size(int64(len(content)+1)))
	return nil
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
