// Package metrics derives cheap, deterministic size features from text.
package metrics

import (
	"strings"
	"unicode/utf8"
)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes and returns byte, rune, word, and line counts for the input string.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// Map returns the features keyed the way telemetry events expect.
func (f Features) Map() map[string]any {
	return map[string]any{
		"bytes": f.Bytes,
		"runes": f.Runes,
		"words": f.Words,
		"lines": f.Lines,
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
