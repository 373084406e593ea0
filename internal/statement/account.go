package statement

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/doc"
	"github.com/releve-dev/releve/internal/record"
	"github.com/releve-dev/releve/internal/table"
)

// CheckingAccount parses checking-account statements. These have no
// usable line structure in their operations table (multi-line cells at
// tight pitch), so it scans fixed-height bands from the account anchor
// down to the next anchor or the end of the document.
type CheckingAccount struct{}

// Name returns "account".
func (p *CheckingAccount) Name() string { return "account" }

// Template returns the checking-account geometry template.
func (p *CheckingAccount) Template() config.Template { return config.CheckingAccount() }

// Parse extracts the operations of the statement's first account.
func (p *CheckingAccount) Parse(st *doc.Statement, pc ParseConfig) (*Result, error) {
	tmpl := pc.Template
	layout := pc.AccountLayout

	year, start, end, err := p.period(st, pc)
	if err != nil {
		return nil, err
	}

	anchors := st.FindWordsAtX(layout.AccountX)
	if len(anchors) == 0 {
		return nil, fmt.Errorf("no account anchor at x=%.2f", layout.AccountX)
	}
	anchor := anchors[0]

	line, err := st.LineOf(anchor, tmpl.EpsilonY)
	if err != nil {
		return nil, err
	}
	if len(line.Words) == 0 {
		return nil, fmt.Errorf("empty account anchor line")
	}
	account := line.Words[0].Content

	initial, err := p.carriedBalance(st, anchor, tmpl, pc.Labels)
	if err != nil {
		return nil, err
	}

	// The table runs from just under the anchor line to the next
	// account anchor, or to the end of the document.
	limitPage := st.LastPage().Index
	limitY := st.LastPage().Height
	if len(anchors) > 1 {
		limitPage = anchors[1].Page
		limitY = anchors[1].Box.Y1
	}

	cols, err := table.ColumnsFromSpecs(layout.Columns)
	if err != nil {
		return nil, err
	}
	scan := &table.ScanTable{
		Table:     *table.New("operations", "", cols),
		StartPage: anchor.Page,
		StartY:    line.Words[0].Box.Bottom() + tmpl.LineSpacing,
		LimitPage: limitPage,
		LimitY:    limitY,
	}

	var records []record.Record
	for _, row := range scan.Scan(st, tmpl, pc.Log) {
		rec, err := record.NewAccountOp(row, year, pc.Labels)
		if err != nil {
			return nil, fmt.Errorf("building operation record: %w", err)
		}
		records = append(records, rec)
	}

	stmtDate := end
	if stmtDate.IsZero() {
		stmtDate = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	return &Result{
		Records:       records,
		StatementDate: stmtDate,
		Account:       account,
		PeriodStart:   start,
		PeriodEnd:     end,
		HasPeriod:     !start.IsZero() && !end.IsZero(),
		Options: record.Options{
			InitialBalance: initial,
			StatementDate:  stmtDate,
			Labels:         pc.Labels,
		},
	}, nil
}

// period reads the statement year and, when recognizable, the period
// bounds from the date box on the first page. The year is the last
// word; the bounds are the first two day-month pairs.
func (p *CheckingAccount) period(st *doc.Statement, pc ParseConfig) (int, time.Time, time.Time, error) {
	box := pc.AccountLayout.DateBox
	words := st.WordsInside(1, boxOf(box))
	if len(words) == 0 {
		return 0, time.Time{}, time.Time{}, fmt.Errorf("no statement period words in date box")
	}

	year, err := strconv.Atoi(words[len(words)-1].Content)
	if err != nil {
		return 0, time.Time{}, time.Time{}, fmt.Errorf("parsing statement year %q: %w", words[len(words)-1].Content, err)
	}

	var dates []time.Time
	for i := 0; i+1 < len(words) && len(dates) < 2; i++ {
		day, err := strconv.Atoi(words[i].Content)
		if err != nil {
			continue
		}
		month, err := pc.Labels.MonthNumber(words[i+1].Content)
		if err != nil {
			continue
		}
		dates = append(dates, time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
	}

	var start, end time.Time
	if len(dates) == 2 {
		start, end = dates[0], dates[1]
	}
	return year, start, end, nil
}

// carriedBalance finds the carried-forward balance: the first line
// below the anchor containing the carried-forward marker, amount in
// the words after the marker label.
func (p *CheckingAccount) carriedBalance(st *doc.Statement, anchor doc.Word, tmpl config.Template, labels config.Labels) (decimal.Decimal, error) {
	marker, ok := st.FindWord(labels.CarriedForward, anchor.Box.Y2)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("carried-forward balance line not found")
	}
	line, err := st.LineOf(marker, tmpl.EpsilonY)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(line.Words) < 3 {
		return decimal.Decimal{}, fmt.Errorf("malformed carried-forward line %q", line.Text)
	}

	var sb strings.Builder
	for _, w := range line.Words[2:] {
		sb.WriteString(w.Content)
	}
	amount, err := record.ParseMoney(sb.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing carried-forward balance: %w", err)
	}
	return amount, nil
}
