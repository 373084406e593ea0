// Package doc models a positionally extracted document: pages owning
// words with bounding boxes, reconstructed into visual lines. It is the
// in-memory form of the `pdftotext -bbox` output.
package doc

import (
	"math"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/geom"
)

// Word is one extracted token: its text, its bounding box, and the
// 1-based index of its owning page. The page index is a non-owning
// back-reference into the Statement's page slice; a word is attached
// to exactly one page at load time and never reassigned.
type Word struct {
	Content string
	Box     geom.Box
	Page    int
}

// Substring returns the slice of the word's content covered by the
// horizontal window [x1, x2], converting the pixel span into character
// offsets with the template's average character width (floor division,
// padded by EpsilonX). When the template declares columns
// non-splittable the full content is returned unchanged.
func (w Word) Substring(x1, x2 float64, tmpl config.Template) string {
	if tmpl.NoSplit {
		return w.Content
	}

	if x1 < w.Box.X1 {
		x1 = w.Box.X1
	}
	if x2 > w.Box.X2 {
		x2 = w.Box.X2
	}

	left := int(math.Floor((x1 - w.Box.X1 + tmpl.EpsilonX) / tmpl.CharWidth))
	right := int(math.Floor((x2 - w.Box.X1 + tmpl.EpsilonX) / tmpl.CharWidth))

	runes := []rune(w.Content)
	if left < 0 {
		left = 0
	}
	if right > len(runes) {
		right = len(runes)
	}
	if left >= right {
		return ""
	}
	return string(runes[left:right])
}
