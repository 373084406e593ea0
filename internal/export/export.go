// Package export renders a reconciled statement as OFX, CSV or a
// human-readable listing.
package export

import (
	"time"

	"github.com/releve-dev/releve/internal/id"
	"github.com/releve-dev/releve/internal/record"
	"github.com/releve-dev/releve/internal/statement"
)

// Format names an output encoding.
type Format string

const (
	FormatOFX    Format = "ofx"
	FormatCSV    Format = "csv"
	FormatPretty Format = "pretty"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatOFX, FormatCSV, FormatPretty:
		return Format(s), true
	}
	return "", false
}

// Statement is a fully reconciled statement ready to render.
type Statement struct {
	// Account is the account or card identifier, possibly empty.
	Account string
	// Currency is the ISO 4217 code, CAD unless overridden.
	Currency string

	Date        time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	HasPeriod   bool

	Records []record.Record
	Summary record.Summary
}

// FromResult assembles a Statement from a profile result and the
// reconciliation output.
func FromResult(res *statement.Result, records []record.Record, sum record.Summary) Statement {
	return Statement{
		Account:     res.Account,
		Currency:    "CAD",
		Date:        res.StatementDate,
		PeriodStart: res.PeriodStart,
		PeriodEnd:   res.PeriodEnd,
		HasPeriod:   res.HasPeriod,
		Records:     records,
		Summary:     sum,
	}
}

// fitid returns the stable transaction identifier for the record at
// index i: the statement sequence when the document provides one, the
// position otherwise.
func (s Statement) fitid(i int) string {
	if rid := s.Records[i].ID; rid != "" {
		return id.FormatFITID(s.Date, rid)
	}
	return id.FormatPositional(s.Date, i)
}
