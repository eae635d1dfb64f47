package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/quickrecap/internal/videoid"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// ---------------------------------------------------------------------------
// Tests for runInfo
// ---------------------------------------------------------------------------

func TestRunInfo_Text(t *testing.T) {
	t.Parallel()

	env, mocks := testEnv()

	if err := RunInfo(context.Background(), env, testURL, false); err != nil {
		t.Fatalf("RunInfo() unexpected error: %v", err)
	}

	out := mocks.stdout.String()
	for _, want := range []string{
		"Title:     Go in 100 Seconds",
		"Author:    Fireship",
		"Length:    2:05",
		"ID:        dQw4w9WgXcQ",
		"Thumbnail: https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRunInfo_JSON(t *testing.T) {
	t.Parallel()

	env, mocks := testEnv()

	if err := RunInfo(context.Background(), env, testURL, true); err != nil {
		t.Fatalf("RunInfo() unexpected error: %v", err)
	}

	var got videoinfo.Info
	if err := json.Unmarshal([]byte(mocks.stdout.String()), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, mocks.stdout.String())
	}
	if got.ID != "dQw4w9WgXcQ" || got.Length != 125 || got.Author != "Fireship" {
		t.Errorf("info = %+v", got)
	}
}

func TestRunInfo_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		env, _ := testEnv()
		err := RunInfo(context.Background(), env, "https://vimeo.com/1", false)
		if !errors.Is(err, videoid.ErrInvalidURL) {
			t.Errorf("error = %v, want ErrInvalidURL", err)
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()
		env, mocks := testEnv()
		mocks.sources.metadata = &mockMetadata{
			LookupFunc: func(context.Context, string) (videoinfo.Details, error) {
				return videoinfo.Details{}, errors.New("quota exceeded")
			},
		}
		err := RunInfo(context.Background(), env, testURL, false)
		if !errors.Is(err, videoinfo.ErrVideoInfo) {
			t.Errorf("error = %v, want ErrVideoInfo", err)
		}
	})

	t.Run("metadata factory failure", func(t *testing.T) {
		t.Parallel()
		env, mocks := testEnv(withEnvVars(map[string]string{EnvYouTubeAPIKey: "bad"}))
		mocks.sources.NewMetadataErr = errors.New("cannot create service")
		err := RunInfo(context.Background(), env, testURL, false)
		if err == nil || !strings.Contains(err.Error(), "cannot create service") {
			t.Errorf("error = %v, want factory error", err)
		}
	})
}
