// Package youtube reads captions and metadata from YouTube.
//
// Client scrapes the public watch page: the embedded ytInitialPlayerResponse
// JSON lists caption tracks and video details, and each caption track is a
// timed text XML document. DataAPI reads metadata from the YouTube Data API v3
// and needs an API key.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/quickrecap/internal/lang"
	"github.com/alnah/quickrecap/internal/transcript"
	"github.com/alnah/quickrecap/internal/videoid"
	"github.com/alnah/quickrecap/internal/videoinfo"
)

// Client configuration.
const (
	defaultBaseURL     = "https://www.youtube.com"
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// Watch pages are large; the player response sits in the first few MB.
	maxWatchPageSize = 6 << 20
	maxTimedTextSize = 2 << 20

	playerResponseMarker = "ytInitialPlayerResponse = "
	playabilityOK        = "OK"
)

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance checks.
var (
	_ transcript.Provider = (*Client)(nil)
	_ videoinfo.Provider  = (*Client)(nil)
)

// Client scrapes captions and video details from the watch page.
type Client struct {
	baseURL     string
	languages   []string
	httpTimeout time.Duration
	httpClient  httpDoer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the site root (for testing or mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithLanguages sets the ordered caption language preference.
// An empty list accepts the first usable track in any language.
func WithLanguages(languages []string) Option {
	return func(c *Client) {
		c.languages = languages
	}
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpTimeout = timeout
		}
	}
}

// withHTTPClient sets a custom HTTP client (for testing).
func withHTTPClient(d httpDoer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

// New creates a Client. Captions default to lang.Default.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		languages:   lang.Default,
		httpTimeout: defaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.httpTimeout}
	}
	return c
}

// playerResponse is the subset of ytInitialPlayerResponse we read.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	VideoDetails struct {
		VideoID          string `json:"videoId"`
		Title            string `json:"title"`
		Author           string `json:"author"`
		LengthSeconds    string `json:"lengthSeconds"`
		ShortDescription string `json:"shortDescription"`
		Thumbnail        struct {
			Thumbnails []struct {
				URL    string `json:"url"`
				Width  int    `json:"width"`
				Height int    `json:"height"`
			} `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// Fragments returns the caption fragments of the best matching track.
func (c *Client) Fragments(ctx context.Context, videoID string) ([]transcript.Fragment, error) {
	pr, err := c.playerResponse(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if pr.PlayabilityStatus.Status != playabilityOK {
		return nil, fmt.Errorf("%s: %w", unplayableReason(pr), transcript.ErrUnavailable)
	}
	if pr.Captions == nil {
		return nil, fmt.Errorf("video %s has no captions: %w", videoID, transcript.ErrDisabled)
	}

	track, err := pickTrack(pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, c.languages)
	if err != nil {
		return nil, err
	}
	return c.timedText(ctx, track.BaseURL)
}

// Lookup returns the video details embedded in the watch page.
func (c *Client) Lookup(ctx context.Context, rawURL string) (videoinfo.Details, error) {
	id, err := videoid.Extract(rawURL)
	if err != nil {
		return videoinfo.Details{}, err
	}
	pr, err := c.playerResponse(ctx, id)
	if err != nil {
		return videoinfo.Details{}, err
	}
	if pr.PlayabilityStatus.Status != playabilityOK {
		return videoinfo.Details{}, fmt.Errorf("video unavailable: %s", unplayableReason(pr))
	}

	vd := pr.VideoDetails
	d := videoinfo.Details{
		Title:       vd.Title,
		Author:      vd.Author,
		Description: vd.ShortDescription,
	}
	if vd.LengthSeconds != "" {
		if d.LengthSeconds, err = strconv.Atoi(vd.LengthSeconds); err != nil {
			return videoinfo.Details{}, fmt.Errorf("invalid lengthSeconds %q: %w", vd.LengthSeconds, err)
		}
	}
	// Thumbnails are listed smallest first.
	if thumbs := vd.Thumbnail.Thumbnails; len(thumbs) > 0 {
		d.ThumbnailURL = thumbs[len(thumbs)-1].URL
	}
	return d, nil
}

// playerResponse downloads the watch page and decodes the embedded player response.
func (c *Client) playerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	watchURL := c.baseURL + "/watch?v=" + url.QueryEscape(videoID)
	body, err := c.get(ctx, watchURL, maxWatchPageSize)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}

	// The decoder stops after the first JSON value and ignores the trailing script.
	var pr playerResponse
	dec := json.NewDecoder(bytes.NewReader(body[idx+len(playerResponseMarker):]))
	if err := dec.Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &pr, nil
}

// get performs a GET request and returns at most limit bytes of the body.
func (c *Client) get(ctx context.Context, target string, limit int64) (_ []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Language", acceptLanguage(c.languages))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func unplayableReason(pr *playerResponse) string {
	if pr.PlayabilityStatus.Reason != "" {
		return pr.PlayabilityStatus.Reason
	}
	if pr.PlayabilityStatus.Status != "" {
		return strings.ToLower(pr.PlayabilityStatus.Status)
	}
	return "no playability status"
}

// acceptLanguage builds an Accept-Language header from the preference list.
func acceptLanguage(languages []string) string {
	if len(languages) == 0 {
		return "en-US,en;q=0.9"
	}
	parts := make([]string, 0, len(languages))
	for i, l := range languages {
		if i == 0 {
			parts = append(parts, l)
			continue
		}
		q := 1.0 - 0.1*float64(i)
		if q < 0.1 {
			q = 0.1
		}
		parts = append(parts, fmt.Sprintf("%s;q=%.1f", l, q))
	}
	return strings.Join(parts, ",")
}

// needsPoToken reports whether a caption track requires a proof-of-origin
// token. Such tracks cannot be fetched outside a browser.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack selects a manual track in a preferred language, then an
// auto-generated one. With no preferences the first usable track wins.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, error) {
	if len(tracks) == 0 {
		return captionTrack{}, fmt.Errorf("no caption tracks: %w", transcript.ErrNoTranscript)
	}

	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, errors.New("all caption tracks require a PoToken")
	}
	if len(languages) == 0 {
		return usable[0], nil
	}

	for _, generated := range []bool{false, true} {
		for _, want := range languages {
			for _, t := range usable {
				if (t.Kind == "asr") == generated && lang.Matches(t.LanguageCode, want) {
					return t, nil
				}
			}
		}
	}
	return captionTrack{}, fmt.Errorf("no caption track for languages %s: %w",
		strings.Join(languages, ","), transcript.ErrNoTranscript)
}
