// Package table extracts structured rows from positioned words using
// geometric column definitions: an acceptance window per column, row
// accumulation across lines for multi-line cells, and a fixed-pitch
// band scan for tables without usable line structure.
package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/doc"
)

// Alignment anchors a column's acceptance window on its position.
type Alignment int

const (
	Left Alignment = iota
	Right
	Center
)

// String returns the layout-file name of the alignment.
func (a Alignment) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case Center:
		return "center"
	default:
		return "unknown"
	}
}

// ParseAlignment converts a layout-file alignment name.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(s) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "center":
		return Center, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q", s)
	}
}

// Column is one geometric column spec: an anchor position, an
// alignment rule and a maximum width defining the horizontal
// acceptance window, plus accumulation flags.
type Column struct {
	Name     string
	Position float64
	Align    Alignment
	MaxWidth float64

	// Optional columns may stay empty in a complete row.
	Optional bool
	// Multiline columns accept continuation text on later lines.
	Multiline bool
	// Key columns carry the integer identity of the row; a new key
	// value abandons any carried partial row.
	Key bool
}

// Window returns the column's horizontal acceptance window.
func (c Column) Window() (left, right float64) {
	switch c.Align {
	case Left:
		return c.Position, c.Position + c.MaxWidth
	case Right:
		return c.Position - c.MaxWidth, c.Position
	default:
		return c.Position - c.MaxWidth/2, c.Position + c.MaxWidth/2
	}
}

// Extract returns the column's textual contribution from words: every
// word whose box intersects the acceptance window contributes its
// (possibly split) content, joined with single spaces in horizontal
// order. Returns "" when no word intersects. The result depends only
// on word positions, not input order.
func (c Column) Extract(words []doc.Word, tmpl config.Template) string {
	left, right := c.Window()

	var hits []doc.Word
	for _, w := range words {
		if w.Box.IntersectsX(left, right) {
			hits = append(hits, w)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Box.X1 < hits[j].Box.X1
	})

	parts := make([]string, 0, len(hits))
	for _, w := range hits {
		parts = append(parts, w.Substring(left, right, tmpl))
	}
	return strings.Join(parts, " ")
}

// ColumnFromSpec converts a layout-file column spec.
func ColumnFromSpec(spec config.ColumnSpec) (Column, error) {
	align, err := ParseAlignment(spec.Align)
	if err != nil {
		return Column{}, fmt.Errorf("column %q: %w", spec.Name, err)
	}
	return Column{
		Name:      spec.Name,
		Position:  spec.Position,
		Align:     align,
		MaxWidth:  spec.MaxWidth,
		Optional:  spec.Optional,
		Multiline: spec.Multiline,
		Key:       spec.Key,
	}, nil
}

// ColumnsFromSpecs converts a layout-file column list.
func ColumnsFromSpecs(specs []config.ColumnSpec) ([]Column, error) {
	cols := make([]Column, 0, len(specs))
	for _, spec := range specs {
		col, err := ColumnFromSpec(spec)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}
