package table

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/doc"
)

// Value is a label-bound scalar extractor: when a line starts with
// Label, the remainder is parsed and stored under Name. Values take
// precedence over table dispatch within a section.
type Value struct {
	Label string
	Name  string
	Parse func(string) (decimal.Decimal, error)
}

// TaggedRow is a completed row together with the name of the table
// that produced it.
type TaggedRow struct {
	Table string
	Row   Row
}

// Section groups the tables and singleton values found under one
// section header. It accumulates everything parsed while the section
// is active.
type Section struct {
	Header string

	values  []Value
	tables  []*Table
	current *Table

	// Scalars holds the singleton values by name.
	Scalars map[string]decimal.Decimal
	// Rows holds completed table rows in document order.
	Rows []TaggedRow
}

// NewSection creates a Section matching lines prefixed with header.
func NewSection(header string) *Section {
	return &Section{Header: header, Scalars: make(map[string]decimal.Decimal)}
}

// AddValue registers a singleton value extractor.
func (s *Section) AddValue(v Value) {
	s.values = append(s.values, v)
}

// AddTable registers a table.
func (s *Section) AddTable(t *Table) {
	s.tables = append(s.tables, t)
}

// Begin resets the section's dispatch state when its header is hit.
func (s *Section) Begin() {
	s.current = nil
}

// ParseLine feeds one line to the section: singleton values first,
// then table (re)activation by trigger, then the active table. Lines
// that complete no row are fine; stray text inside a table's region is
// expected and contributes nothing.
func (s *Section) ParseLine(line doc.Line, tmpl config.Template, log zerolog.Logger) {
	for _, v := range s.values {
		if line.HasPrefix(v.Label) {
			val, err := v.Parse(line.After(v.Label))
			if err != nil {
				log.Debug().Str("value", v.Name).Err(err).Msg("unparseable singleton value")
				return
			}
			s.Scalars[v.Name] = val
			return
		}
	}

	for _, t := range s.tables {
		if t.Trigger == "" || line.HasPrefix(t.Trigger) {
			s.current = t
			t.Reset()
		}
	}
	if s.current == nil {
		return
	}

	row, outcome := s.current.ParseLine(line.Words, tmpl)
	if outcome == Complete {
		s.Rows = append(s.Rows, TaggedRow{Table: s.current.Name, Row: row})
	}
}

// RowsOf returns the completed rows of one table.
func (s *Section) RowsOf(table string) []Row {
	var rows []Row
	for _, tr := range s.Rows {
		if tr.Table == table {
			rows = append(rows, tr.Row)
		}
	}
	return rows
}

// Parser runs a whole-document scan: pages in order, reconstructed
// lines in vertical order, switching the active section whenever a
// line matches a registered section header.
type Parser struct {
	sections []*Section
	log      zerolog.Logger
}

// NewParser creates a Parser.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// Add registers a section.
func (p *Parser) Add(s *Section) {
	p.sections = append(p.sections, s)
}

// Run feeds every reconstructed line of the statement to the current
// section. Lines matching no header while no section is active are
// ignored.
func (p *Parser) Run(st *doc.Statement, tmpl config.Template) {
	var current *Section
	for _, page := range st.Pages {
		for line := range page.Lines(tmpl.EpsilonY) {
			for _, s := range p.sections {
				if line.HasPrefix(s.Header) {
					current = s
					s.Begin()
					p.log.Debug().Str("section", s.Header).Int("page", page.Index).Msg("section start")
				}
			}
			if current != nil {
				current.ParseLine(line, tmpl, p.log)
			}
		}
	}
}
