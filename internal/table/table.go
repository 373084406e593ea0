package table

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/doc"
)

// Outcome is the explicit result of feeding one line to a table:
// either the line completed a row, extended a partial row that is
// still accumulating, or contributed nothing.
type Outcome int

const (
	// NoRow: the line did not look like a table row; any carried
	// partial row is left untouched.
	NoRow Outcome = iota
	// Partial: the line contributed values but a required column is
	// still missing; the row is carried to the next line.
	Partial
	// Complete: every non-optional column is filled; the row is
	// finalized and row state reset.
	Complete
)

// Table extracts rows from lines according to an ordered column list.
// Trigger is the header prefix that activates the table inside its
// section; an empty trigger activates on every line.
type Table struct {
	Name    string
	Trigger string
	Columns []Column

	current *Row
}

// New creates a Table.
func New(name, trigger string, columns []Column) *Table {
	return &Table{Name: name, Trigger: trigger, Columns: columns}
}

// Reset discards any in-progress partial row.
func (t *Table) Reset() {
	t.current = nil
}

// ParseLine attempts to fill the table's current row from one line's
// words. Row accumulation rules:
//   - a required column with no value fails the line, unless a
//     multiline column is already filled, in which case the row is
//     carried over as Partial;
//   - multiline columns already filled take continuation text;
//   - a key value differing from the carried row's key abandons the
//     carried row and starts a fresh one from this line.
func (t *Table) ParseLine(words []doc.Word, tmpl config.Template) (Row, Outcome) {
	// Two attempts at most: a key conflict drops the carried row and
	// reprocesses the line once against a fresh one.
	for attempt := 0; attempt < 2; attempt++ {
		row := NewRow()
		if t.current != nil {
			row = *t.current
		}
		pending := t.pendingMultiline(row)
		conflict := false

		for _, col := range t.Columns {
			val := strings.TrimSpace(col.Extract(words, tmpl))

			if row.Has(col.Name) {
				if val == "" {
					continue
				}
				if col.Key {
					key, err := strconv.Atoi(val)
					if err != nil {
						return Row{}, NoRow
					}
					if cur, ok := row.Key(); ok && key != cur {
						// A different logical entry: never merge it
						// into the carried partial row.
						t.current = nil
						conflict = true
						break
					}
					continue
				}
				if col.Multiline {
					row.Append(col.Name, val)
					pending = true
				}
				continue
			}

			if val == "" {
				if col.Optional {
					continue
				}
				if pending {
					t.current = &row
					return Row{}, Partial
				}
				return Row{}, NoRow
			}

			if col.Key {
				key, err := strconv.Atoi(val)
				if err != nil {
					return Row{}, NoRow
				}
				row.SetKey(key)
			}
			row.Set(col.Name, val)
			if col.Multiline {
				pending = true
			}
		}

		if conflict {
			continue
		}
		t.current = nil
		return row, Complete
	}
	return Row{}, NoRow
}

func (t *Table) pendingMultiline(row Row) bool {
	for _, col := range t.Columns {
		if col.Multiline && row.Has(col.Name) {
			return true
		}
	}
	return false
}

// ScanTable reads a table by scanning fixed-pitch vertical bands
// instead of natural line clusters, advancing page by page from its
// anchor until the caller-supplied limit (the next recognized anchor,
// or the end of the document).
type ScanTable struct {
	Table
	StartPage int
	StartY    float64
	LimitPage int
	LimitY    float64
}

// Scan walks the bands at pitch CharHeight+LineSpacing, feeding each
// band's words through ParseLine. Continuation pages restart at the
// template's page offset. A row still partial when the scan window
// closes is discarded.
func (t *ScanTable) Scan(st *doc.Statement, tmpl config.Template, log zerolog.Logger) []Row {
	t.Reset()

	var rows []Row
	y := t.StartY
	for pageNo := t.StartPage; pageNo <= t.LimitPage && pageNo <= len(st.Pages); pageNo++ {
		page := st.Pages[pageNo-1]
		limit := page.Height
		if pageNo == t.LimitPage {
			limit = t.LimitY
		}

		for ; y+tmpl.CharHeight <= limit; y += tmpl.CharHeight + tmpl.LineSpacing {
			words := page.Band(y, y+tmpl.CharHeight, tmpl.EpsilonY)
			if len(words) == 0 {
				continue
			}
			row, outcome := t.ParseLine(words, tmpl)
			if outcome == Complete {
				rows = append(rows, row)
			}
		}
		y = tmpl.PageOffset
	}

	if t.current != nil {
		log.Debug().Str("table", t.Name).Msg("discarding partial row at end of scan window")
	}
	t.Reset()
	return rows
}
