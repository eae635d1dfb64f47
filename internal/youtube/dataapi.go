package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/alnah/quickrecap/internal/apierr"
	"github.com/alnah/quickrecap/internal/videoid"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// ErrEmptyAPIKey indicates DataAPI was built without a key.
var ErrEmptyAPIKey = errors.New("YouTube API key is required")

// ErrVideoNotFound indicates the Data API returned no item for the ID.
var ErrVideoNotFound = errors.New("video not found")

var dataAPIParts = []string{"snippet", "contentDetails"}

// Compile-time interface compliance check.
var _ videoinfo.Provider = (*DataAPI)(nil)

// DataAPI reads video metadata from the YouTube Data API v3.
type DataAPI struct {
	service *ytapi.Service
}

// NewDataAPI creates a DataAPI authenticated by apiKey.
// Extra client options (endpoint, HTTP client) are applied after the key.
func NewDataAPI(ctx context.Context, apiKey string, opts ...option.ClientOption) (*DataAPI, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &DataAPI{service: service}, nil
}

// Lookup returns the snippet and duration of the video at rawURL.
func (a *DataAPI) Lookup(ctx context.Context, rawURL string) (videoinfo.Details, error) {
	id, err := videoid.Extract(rawURL)
	if err != nil {
		return videoinfo.Details{}, err
	}

	resp, err := a.service.Videos.List(dataAPIParts).Id(id).Context(ctx).Do()
	if err != nil {
		return videoinfo.Details{}, classifyGoogleAPIError(err)
	}
	if len(resp.Items) == 0 {
		return videoinfo.Details{}, fmt.Errorf("%s: %w", id, ErrVideoNotFound)
	}

	item := resp.Items[0]
	d := videoinfo.Details{}
	if s := item.Snippet; s != nil {
		d.Title = s.Title
		d.Author = s.ChannelTitle
		d.Description = s.Description
		d.ThumbnailURL = bestThumbnail(s.Thumbnails)
	}
	if cd := item.ContentDetails; cd != nil {
		d.LengthSeconds = parseDurationSeconds(cd.Duration)
	}
	return d, nil
}

// bestThumbnail returns the largest available thumbnail URL.
func bestThumbnail(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*ytapi.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseDurationSeconds converts an ISO 8601 duration such as "PT1H2M3S".
// Unparseable values yield 0.
func parseDurationSeconds(duration string) int {
	m := isoDuration.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	total := 0
	for i, unit := range []int{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0
		}
		total += n * unit
	}
	return total
}

// classifyGoogleAPIError maps googleapi errors to apierr sentinels.
func classifyGoogleAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = err.Error()
		}
		if gerr.Code == http.StatusForbidden && isQuotaReason(gerr) {
			return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
		}
		if classified := apierr.FromStatus(gerr.Code, msg); classified != nil {
			return classified
		}
	}
	return err
}

func isQuotaReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if item.Reason == "quotaExceeded" || item.Reason == "dailyLimitExceeded" {
			return true
		}
	}
	return false
}
