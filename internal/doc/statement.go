package doc

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/releve-dev/releve/internal/geom"
)

// Statement is the whole-document object: every page of one extracted
// statement. One Statement is owned by one parse run.
type Statement struct {
	Pages []*Page
}

var (
	pageExp = regexp.MustCompile(`^\s*<page width="(\d+\.\d+)" height="(\d+\.\d+)">\s*$`)
	wordExp = regexp.MustCompile(`^\s*<word xMin="(\d+\.\d+)" yMin="(\d+\.\d+)" xMax="(\d+\.\d+)" yMax="(\d+\.\d+)">(.*)</word>\s*$`)
)

// Load parses the newline-delimited bounding-box output of
// `pdftotext -bbox`: page records open a new page, word records append
// to the current page with HTML entities decoded. Words seen before
// the first page record are dropped.
func Load(r io.Reader) (*Statement, error) {
	st := &Statement{}
	var current *Page

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if m := pageExp.FindStringSubmatch(line); m != nil {
			w, _ := strconv.ParseFloat(m[1], 64)
			h, _ := strconv.ParseFloat(m[2], 64)
			current = &Page{Index: len(st.Pages) + 1, Width: w, Height: h}
			st.Pages = append(st.Pages, current)
			continue
		}
		if current == nil {
			continue
		}
		if m := wordExp.FindStringSubmatch(line); m != nil {
			x1, _ := strconv.ParseFloat(m[1], 64)
			y1, _ := strconv.ParseFloat(m[2], 64)
			x2, _ := strconv.ParseFloat(m[3], 64)
			y2, _ := strconv.ParseFloat(m[4], 64)
			current.Words = append(current.Words, Word{
				Content: strings.TrimSpace(html.UnescapeString(m[5])),
				Box:     geom.NewBox(x1, x2, y1, y2),
				Page:    current.Index,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading bounding-box stream: %w", err)
	}
	if len(st.Pages) == 0 {
		return nil, fmt.Errorf("no pages in bounding-box stream")
	}
	return st, nil
}

// FindWord returns the first word with the given content whose top
// edge is at or below minY, scanning pages in order. The bool result
// reports whether a match was found.
func (s *Statement) FindWord(content string, minY float64) (Word, bool) {
	for _, page := range s.Pages {
		for _, w := range page.Words {
			if w.Content == content && w.Box.Y1 >= minY {
				return w, true
			}
		}
	}
	return Word{}, false
}

// FindWordsAtX returns every word whose left edge sits exactly at x,
// in page then load order. Used to walk template anchors that share a
// fixed column.
func (s *Statement) FindWordsAtX(x float64) []Word {
	var words []Word
	for _, page := range s.Pages {
		for _, w := range page.Words {
			if w.Box.X1 == x {
				words = append(words, w)
			}
		}
	}
	return words
}

// WordsInside returns the words of page pageIndex (1-based) fully
// contained in box, in load order.
func (s *Statement) WordsInside(pageIndex int, box geom.Box) []Word {
	page, err := s.PageAt(pageIndex)
	if err != nil {
		return nil
	}
	var words []Word
	for _, w := range page.Words {
		if w.Box.X1 >= box.X1 && w.Box.X2 <= box.X2 &&
			w.Box.Y1 >= box.Y1 && w.Box.Y2 <= box.Y2 {
			words = append(words, w)
		}
	}
	return words
}

// LineOf returns the full visual line containing w, re-derived from
// w's owning page via a band query over the word's vertical extent.
func (s *Statement) LineOf(w Word, epsY float64) (Line, error) {
	page, err := s.PageAt(w.Page)
	if err != nil {
		return Line{}, err
	}
	return NewLine(page.Band(w.Box.Y1, w.Box.Y2, epsY)), nil
}

// PageAt returns the page with 1-based index i.
func (s *Statement) PageAt(i int) (*Page, error) {
	if i < 1 || i > len(s.Pages) {
		return nil, fmt.Errorf("page %d out of range 1..%d", i, len(s.Pages))
	}
	return s.Pages[i-1], nil
}

// LastPage returns the final page of the statement.
func (s *Statement) LastPage() *Page {
	return s.Pages[len(s.Pages)-1]
}
