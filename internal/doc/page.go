package doc

import (
	"iter"
	"sort"
)

// Page owns the ordered set of words extracted from one PDF page.
// Word order at rest is load order; line reconstruction sorts on
// demand.
type Page struct {
	Index  int // 1-based
	Width  float64
	Height float64
	Words  []Word
}

// Lines reconstructs the page's visual lines: words sorted by vertical
// position, a new line starting whenever the next word's top edge
// exceeds the previous word's by more than epsY. The sequence is
// recomputed from the stored word set on every call, so it is
// restartable.
func (p *Page) Lines(epsY float64) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		sorted := make([]Word, len(p.Words))
		copy(sorted, p.Words)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Box.Y1 < sorted[j].Box.Y1
		})

		var current []Word
		for _, w := range sorted {
			if len(current) > 0 && w.Box.Y1 >= current[len(current)-1].Box.Y1+epsY {
				if !yield(NewLine(current)) {
					return
				}
				current = nil
			}
			current = append(current, w)
		}
		if len(current) > 0 {
			yield(NewLine(current))
		}
	}
}

// Band returns the words lying fully inside the vertical band
// [y1−epsY, y2+epsY], sorted by horizontal position. Table scanning
// uses this to read rows at a fixed pitch instead of by natural line
// clustering.
func (p *Page) Band(y1, y2, epsY float64) []Word {
	var words []Word
	for _, w := range p.Words {
		if w.Box.Y1 >= y1-epsY && w.Box.Y2 <= y2+epsY {
			words = append(words, w)
		}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Box.X1 < words[j].Box.X1
	})
	return words
}
