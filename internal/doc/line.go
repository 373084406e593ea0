package doc

import (
	"sort"
	"strings"
)

// Line is a sequence of words sharing a vertical band, ordered by
// horizontal position. Text is the space-joined content used for
// prefix matching against section and table headers.
type Line struct {
	Words []Word
	Text  string
}

// NewLine builds a Line from words, sorting them by horizontal
// position.
func NewLine(words []Word) Line {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.X1 < sorted[j].Box.X1
	})

	parts := make([]string, len(sorted))
	for i, w := range sorted {
		parts[i] = w.Content
	}
	return Line{Words: sorted, Text: strings.Join(parts, " ")}
}

// HasPrefix reports whether the line's text starts with prefix.
func (l Line) HasPrefix(prefix string) bool {
	return strings.HasPrefix(l.Text, prefix)
}

// After returns the line's text with a leading label removed and
// surrounding space trimmed.
func (l Line) After(label string) string {
	return strings.TrimSpace(strings.TrimPrefix(l.Text, label))
}
