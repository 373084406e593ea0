// Package id builds the stable identifiers attached to exported
// transactions: OFX FITIDs and per-statement references. Banks key
// credit-card transactions with a three-digit statement sequence, so
// a FITID is the statement date plus that sequence; account
// operations carry no sequence and get one from their position.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "20060102"

// FormatFITID returns a FITID like "20161221-001" from the statement
// date and the transaction's statement sequence.
func FormatFITID(stmtDate time.Time, seq string) string {
	return stmtDate.Format(dateLayout) + "-" + seq
}

// FormatPositional returns a FITID for a record without a statement
// sequence, derived from its 0-based position: "20161221-p004".
func FormatPositional(stmtDate time.Time, index int) string {
	return fmt.Sprintf("%s-p%03d", stmtDate.Format(dateLayout), index)
}

// ParseFITID splits a FITID back into statement date and sequence.
func ParseFITID(fitid string) (time.Time, string, error) {
	datePart, seq, ok := strings.Cut(fitid, "-")
	if !ok {
		return time.Time{}, "", fmt.Errorf("invalid FITID format: %q", fitid)
	}
	date, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid date in FITID %q: %w", fitid, err)
	}
	if seq == "" {
		return time.Time{}, "", fmt.Errorf("empty sequence in FITID %q", fitid)
	}
	return date, seq, nil
}

// Positional reports whether seq is a position-derived sequence and
// returns the position if so.
func Positional(seq string) (int, bool) {
	rest, ok := strings.CutPrefix(seq, "p")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
