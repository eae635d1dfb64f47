package summary

import "strings"

// bulletMarker prefixes each bullet line.
const bulletMarker = "\n• "

// splitSentences splits text at runs of spaces that follow '.', '!' or '?'.
// Like a regex split, the piece after the last boundary is always kept,
// even when empty.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 1; i < len(text); i++ {
		if text[i] != ' ' || !isTerminal(text[i-1]) {
			continue
		}
		end := i
		for i < len(text) && text[i] == ' ' {
			i++
		}
		out = append(out, text[start:end])
		start = i
		i-- // loop increment lands on the first byte after the run
	}
	return append(out, text[start:])
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// bulletize re-splits text into sentences and prefixes each non-empty one
// with a bullet marker.
func bulletize(text string) string {
	var items []string
	for _, s := range splitSentences(text) {
		if s != "" {
			items = append(items, s)
		}
	}
	return bulletMarker + strings.Join(items, bulletMarker)
}
