package statement

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/doc"
	"github.com/releve-dev/releve/internal/record"
	"github.com/releve-dev/releve/internal/table"
)

// CreditCard parses credit-card statements. Transaction columns are
// anchored on the words of the first transaction row (the row keyed
// "001"), so the profile tolerates small template revisions that move
// the whole table.
type CreditCard struct{}

// Name returns "credit".
func (p *CreditCard) Name() string { return "credit" }

// Template returns the credit-card geometry template.
func (p *CreditCard) Template() config.Template { return config.CreditCard() }

// Parse extracts purchases, account operations and the summary
// figures from a credit-card statement.
func (p *CreditCard) Parse(st *doc.Statement, pc ParseConfig) (*Result, error) {
	tmpl := pc.Template
	labels := pc.Labels

	stmtDate, err := p.statementDate(st, pc.CreditLayout.DateBox)
	if err != nil {
		return nil, err
	}

	anchor, err := p.anchorLine(st, tmpl)
	if err != nil {
		return nil, err
	}
	if err := checkCharMetrics(anchor, tmpl); err != nil {
		return nil, err
	}

	// Amounts sit two characters left of the line edge when the first
	// row carries a CR marker.
	crShift := 0.0
	if strings.HasSuffix(anchor.Words[len(anchor.Words)-1].Content, "CR") {
		crShift = -2 * tmpl.CharWidth
	}

	summary := table.NewSection(labels.SummaryHeader)
	summary.AddValue(table.Value{Label: labels.PrevBalanceLabel, Name: "initial", Parse: record.ParseLabelMoney})
	summary.AddValue(table.Value{Label: labels.CurrBalanceLabel, Name: "final", Parse: record.ParseLabelMoney})

	transactions := table.NewSection(labels.TransactionsHeader)
	transactions.AddTable(p.cardTable(anchor, crShift, tmpl, labels))
	transactions.AddTable(p.opsTable(anchor, crShift, tmpl, labels))

	volume, err := sectionFromSpecs(labels.VolumeHeader, "volume", pc.CreditLayout.VolumeColumns)
	if err != nil {
		return nil, err
	}
	reward, err := sectionFromSpecs(labels.RewardHeader, "reward", pc.CreditLayout.RewardColumns)
	if err != nil {
		return nil, err
	}

	parser := table.NewParser(pc.Log)
	parser.Add(summary)
	parser.Add(transactions)
	parser.Add(volume)
	parser.Add(reward)
	parser.Run(st, tmpl)

	records, err := p.collectRecords(transactions, stmtDate, labels)
	if err != nil {
		return nil, err
	}

	opts, err := p.collectOptions(summary, volume, reward)
	if err != nil {
		return nil, err
	}
	opts.StatementDate = stmtDate
	opts.Labels = labels

	return &Result{
		Records:       records,
		StatementDate: stmtDate,
		Options:       opts,
	}, nil
}

// statementDate reads the statement date words (day month year in
// document order) from the layout's date box.
func (p *CreditCard) statementDate(st *doc.Statement, box config.BoxSpec) (time.Time, error) {
	words := st.WordsInside(1, boxOf(box))
	if len(words) != 3 {
		return time.Time{}, fmt.Errorf("expected 3 statement date words, found %d", len(words))
	}
	var parts [3]int
	for i, w := range words {
		n, err := strconv.Atoi(w.Content)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing statement date word %q: %w", w.Content, err)
		}
		parts[i] = n
	}
	return time.Date(parts[2], time.Month(parts[1]), parts[0], 0, 0, 0, 0, time.UTC), nil
}

// anchorLine locates the first transaction row: the first "001" word
// below the transaction section's DESCRIPTION header.
func (p *CreditCard) anchorLine(st *doc.Statement, tmpl config.Template) (doc.Line, error) {
	header, ok := st.FindWord("DESCRIPTION", 0)
	if !ok {
		return doc.Line{}, fmt.Errorf("transaction header not found")
	}
	first, ok := st.FindWord("001", header.Box.Y2)
	if !ok {
		return doc.Line{}, fmt.Errorf("first transaction row not found")
	}
	line, err := st.LineOf(first, tmpl.EpsilonY)
	if err != nil {
		return doc.Line{}, err
	}
	if len(line.Words) < 7 {
		return doc.Line{}, fmt.Errorf("first transaction row has %d words, need at least 7", len(line.Words))
	}
	return line, nil
}

// cardTable builds the card-purchase table anchored on the first
// transaction row's word positions.
func (p *CreditCard) cardTable(anchor doc.Line, crShift float64, tmpl config.Template, labels config.Labels) *table.Table {
	w := anchor.Words
	last := w[len(w)-1]
	cw := tmpl.CharWidth

	return table.New("card", labels.CardTableHeader, []table.Column{
		{Name: "day", Position: w[0].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "month", Position: w[1].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "report_d", Position: w[2].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "report_m", Position: w[3].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "id", Position: w[4].Box.MidX(), Align: table.Center, MaxWidth: 3 * cw, Key: true},
		{Name: "desc", Position: w[5].Box.Left(0), Align: table.Left, MaxWidth: 25 * cw},
		{Name: "city", Position: w[5].Box.Left(25 * cw), Align: table.Left, MaxWidth: 13 * cw},
		{Name: "state", Position: w[5].Box.Left(38 * cw), Align: table.Left, MaxWidth: 2 * cw},
		{Name: "amount", Position: last.Box.Right(crShift), Align: table.Right, MaxWidth: 10 * cw},
		{Name: "credit", Position: last.Box.Right(crShift), Align: table.Left, MaxWidth: 2 * cw, Optional: true},
	})
}

// opsTable builds the account-operations table: like the card table
// but with one wide description column in place of desc/city/state.
func (p *CreditCard) opsTable(anchor doc.Line, crShift float64, tmpl config.Template, labels config.Labels) *table.Table {
	w := anchor.Words
	last := w[len(w)-1]
	cw := tmpl.CharWidth

	return table.New("ops", labels.OperationsHeader, []table.Column{
		{Name: "day", Position: w[0].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "month", Position: w[1].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "report_d", Position: w[2].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "report_m", Position: w[3].Box.MidX(), Align: table.Center, MaxWidth: 2 * cw},
		{Name: "id", Position: w[4].Box.MidX(), Align: table.Center, MaxWidth: 3 * cw, Key: true},
		{Name: "desc", Position: w[5].Box.Left(0), Align: table.Left, MaxWidth: 40 * cw},
		{Name: "amount", Position: last.Box.Right(crShift), Align: table.Right, MaxWidth: 10 * cw},
		{Name: "credit", Position: last.Box.Right(crShift), Align: table.Left, MaxWidth: 2 * cw, Optional: true},
	})
}

func (p *CreditCard) collectRecords(transactions *table.Section, stmtDate time.Time, labels config.Labels) ([]record.Record, error) {
	var records []record.Record
	for _, tr := range transactions.Rows {
		var (
			rec record.Record
			err error
		)
		switch tr.Table {
		case "card":
			rec, err = record.NewPurchase(tr.Row, stmtDate)
		case "ops":
			rec, err = record.NewOperation(tr.Row, stmtDate, labels)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("building record from %s row: %w", tr.Table, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (p *CreditCard) collectOptions(summary, volume, reward *table.Section) (record.Options, error) {
	var opts record.Options

	initial, ok := summary.Scalars["initial"]
	if !ok {
		return opts, fmt.Errorf("previous balance not found in summary section")
	}
	final, ok := summary.Scalars["final"]
	if !ok {
		return opts, fmt.Errorf("current balance not found in summary section")
	}
	opts.InitialBalance = initial
	opts.FinalBalance = final
	opts.HasFinalBalance = true

	if rows := volume.RowsOf("volume"); len(rows) > 0 {
		row := rows[0]
		var err error
		if opts.InitialVolume, err = record.ParseMoney(row.Get("initial")); err != nil {
			return opts, fmt.Errorf("volume summary: %w", err)
		}
		if opts.FinalVolume, err = record.ParseMoney(row.Get("final")); err != nil {
			return opts, fmt.Errorf("volume summary: %w", err)
		}
		opts.HasFinalVolume = true
	}

	if rows := reward.RowsOf("reward"); len(rows) > 0 {
		row := rows[0]
		var err error
		if opts.RewardInitial, err = record.ParseMoney(row.Get("initial")); err != nil {
			return opts, fmt.Errorf("reward summary: %w", err)
		}
		if opts.RewardReceived, err = record.ParseMoney(row.Get("received")); err != nil {
			return opts, fmt.Errorf("reward summary: %w", err)
		}
		if opts.RewardSpent, err = record.ParseMoney(row.Get("spent")); err != nil {
			return opts, fmt.Errorf("reward summary: %w", err)
		}
		if opts.RewardAdjustment, err = record.ParseMoney(row.Get("adjustment")); err != nil {
			return opts, fmt.Errorf("reward summary: %w", err)
		}
		if opts.RewardFinal, err = record.ParseMoney(row.Get("final")); err != nil {
			return opts, fmt.Errorf("reward summary: %w", err)
		}

		computed := opts.RewardInitial.Add(opts.RewardReceived).
			Add(opts.RewardSpent).Add(opts.RewardAdjustment)
		if !computed.Equal(opts.RewardFinal) {
			return opts, fmt.Errorf("reward summary does not close: %s + movements = %s, document reports %s",
				opts.RewardInitial.StringFixed(2), computed.StringFixed(2), opts.RewardFinal.StringFixed(2))
		}
		opts.HasRewardSummary = true
	}

	return opts, nil
}

// sectionFromSpecs builds a section holding one always-active table
// from layout column specs.
func sectionFromSpecs(header, name string, specs []config.ColumnSpec) (*table.Section, error) {
	cols, err := table.ColumnsFromSpecs(specs)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", header, err)
	}
	s := table.NewSection(header)
	s.AddTable(table.New(name, "", cols))
	return s, nil
}

// checkCharMetrics compares the trimmed-mean character width and
// height measured from the anchor line against the template. Geometry
// constants drive every column window, so a disagreement aborts the
// run.
func checkCharMetrics(line doc.Line, tmpl config.Template) error {
	var widths, heights []float64
	for _, w := range line.Words {
		if n := len([]rune(w.Content)); n > 0 {
			widths = append(widths, w.Box.Width()/float64(n))
		}
		heights = append(heights, w.Box.Height())
	}

	if width := trimmedMean(widths); width != round3(tmpl.CharWidth) {
		return &TemplateMismatchError{Metric: "character width", Configured: tmpl.CharWidth, Measured: width}
	}
	if height := trimmedMean(heights); height != round3(tmpl.CharHeight) {
		return &TemplateMismatchError{Metric: "character height", Configured: tmpl.CharHeight, Measured: height}
	}
	return nil
}

// trimmedMean drops the extremes and averages the rest, rounded to
// three decimals.
func trimmedMean(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	trimmed := sorted[1 : len(sorted)-1]

	var sum float64
	for _, v := range trimmed {
		sum += v
	}
	return round3(sum / float64(len(trimmed)))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
