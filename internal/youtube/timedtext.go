package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/quickrecap/internal/transcript"
)

// timedTextDoc is the timed text XML served for a caption track:
//
//	<transcript><text start="1.2" dur="3.4">Hello &amp;amp; welcome</text></transcript>
type timedTextDoc struct {
	Lines []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// Caption text can carry inline formatting such as <font color="...">.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// timedText fetches a caption track and converts it to fragments.
func (c *Client) timedText(ctx context.Context, trackURL string) ([]transcript.Fragment, error) {
	body, err := c.get(ctx, trackURL, maxTimedTextSize)
	if err != nil {
		return nil, fmt.Errorf("timed text: %w", err)
	}
	return parseTimedText(body)
}

// parseTimedText decodes a timed text document. Lines with no text after
// cleanup are dropped.
func parseTimedText(data []byte) ([]transcript.Fragment, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timed text XML: %w", err)
	}

	fragments := make([]transcript.Fragment, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		text := cleanCaption(line.Text)
		if text == "" {
			continue
		}
		fragments = append(fragments, transcript.Fragment{
			Text:     text,
			Start:    parseSeconds(line.Start),
			Duration: parseSeconds(line.Dur),
		})
	}
	return fragments, nil
}

// cleanCaption unescapes the second level of HTML entities, strips inline
// tags and folds line breaks into spaces.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	s = tagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// parseSeconds converts a decimal seconds attribute. Malformed values are zero.
func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
