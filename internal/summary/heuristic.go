package summary

import (
	"context"
	"strings"
)

const (
	heuristicMaxSentences = 5
	heuristicMaxWords     = 200
	ellipsis              = "..."
)

// Compile-time interface compliance check.
var _ Tier = Heuristic{}

// Heuristic picks five representative sentences without any model.
// It never fails.
type Heuristic struct{}

// Name returns "heuristic".
func (Heuristic) Name() string { return "heuristic" }

// Summarize keeps every sentence of short input. Longer input is reduced to
// the first two, the middle and the last two sentences. The result is capped
// at 200 words.
func (Heuristic) Summarize(_ context.Context, text string, format Format, _ int) (string, error) {
	sentences := splitSentences(text)

	var result string
	if n := len(sentences); n <= heuristicMaxSentences {
		result = strings.Join(sentences, " ")
	} else {
		result = strings.Join([]string{
			sentences[0],
			sentences[1],
			sentences[n/2],
			sentences[n-2],
			sentences[n-1],
		}, " ")
	}

	if words := strings.Fields(result); len(words) > heuristicMaxWords {
		result = strings.Join(words[:heuristicMaxWords], " ") + ellipsis
	}

	if format.OrDefault() == Bullets {
		return bulletize(result), nil
	}
	return result, nil
}
