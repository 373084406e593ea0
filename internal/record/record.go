// Package record turns raw table rows into typed statement records and
// validates the full ordered sequence against the document's reported
// balance, purchase-volume and reward checkpoints.
package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/table"
)

// Kind tags a record's origin: parsed from the document, or
// synthesized by the reconciliation pass.
type Kind int

const (
	// KindPurchase is a credit-card purchase row.
	KindPurchase Kind = iota
	// KindOperation is a credit-card account operation row.
	KindOperation
	// KindAccountOp is a checking-account operation row.
	KindAccountOp
	// KindRewardSpending is a synthetic record closing the gap between
	// reported and observed reward spending.
	KindRewardSpending
	// KindRewardAdjustment is a synthetic record carrying the reward
	// adjustment (reported adjustment plus rounding residue).
	KindRewardAdjustment
)

// Synthetic reports whether the record was generated by
// reconciliation rather than parsed from the document.
func (k Kind) Synthetic() bool {
	return k == KindRewardSpending || k == KindRewardAdjustment
}

// Record is one statement entry. Parsed and synthetic records share
// the struct; Kind distinguishes them.
type Record struct {
	Kind        Kind
	ID          string
	Date        time.Time
	Description string
	Location    string
	Code        string

	// Amount is the signed monetary amount (negative = credit for
	// card statements, withdrawal for account statements).
	Amount decimal.Decimal

	// Balance is the balance reported by the document on this row,
	// when present.
	Balance    decimal.Decimal
	HasBalance bool

	// Running is the computed running balance, assigned during
	// reconciliation.
	Running decimal.Decimal

	// Reward is the reward earned (or, for synthetic records,
	// carried) by this record.
	Reward decimal.Decimal

	// VolumeOK marks the record as counting toward the annual
	// purchase volume; Skipped excludes it by user request.
	VolumeOK bool
	Skipped  bool
}

// VolumeEligible reports whether the record counts toward volume.
func (r Record) VolumeEligible() bool {
	return r.VolumeOK && !r.Skipped
}

// IsRewardSpending reports whether the description matches one of the
// reward-spending patterns.
func (r Record) IsRewardSpending(patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(r.Description, p) {
			return true
		}
	}
	return false
}

// volumeThreshold is the annual purchase volume above which the extra
// reward rate applies.
var volumeThreshold = decimal.NewFromInt(20000)

// CalculateReward sets the record's reward from the accumulated
// volume and the configured percentage rates, rounded to cents.
func (r *Record) CalculateReward(volume, rate, extraRate decimal.Decimal) {
	if !r.VolumeEligible() {
		return
	}
	pct := rate
	if volume.GreaterThan(volumeThreshold) {
		pct = extraRate
	}
	hundred := decimal.NewFromInt(100)
	r.Reward = pct.Div(hundred).Mul(r.Amount).Round(2)
}

// NewPurchase builds a credit-card purchase record from a table row
// with day/month/id/desc/amount columns and optional city/state and
// credit-marker columns. Dates are resolved against the statement
// date, rolling back one year when the naive resolution lands after
// it (statements spanning a year boundary).
func NewPurchase(row table.Row, stmtDate time.Time) (Record, error) {
	return newCardRecord(row, stmtDate, KindPurchase)
}

// NewOperation builds a credit-card account-operation record. Unlike
// purchases, operations count toward the purchase volume only when
// they are reward spending; the caller flags that after matching the
// locale's patterns.
func NewOperation(row table.Row, stmtDate time.Time, labels config.Labels) (Record, error) {
	r, err := newCardRecord(row, stmtDate, KindOperation)
	if err != nil {
		return Record{}, err
	}
	r.VolumeOK = r.IsRewardSpending(labels.RewardPatterns)
	return r, nil
}

func newCardRecord(row table.Row, stmtDate time.Time, kind Kind) (Record, error) {
	day, err := strconv.Atoi(row.Get("day"))
	if err != nil {
		return Record{}, fmt.Errorf("parsing day %q: %w", row.Get("day"), err)
	}
	month, err := strconv.Atoi(row.Get("month"))
	if err != nil {
		return Record{}, fmt.Errorf("parsing month %q: %w", row.Get("month"), err)
	}
	date, err := resolveDate(stmtDate, month, day)
	if err != nil {
		return Record{}, err
	}

	amount, err := ParseMoney(row.Get("amount"))
	if err != nil {
		return Record{}, fmt.Errorf("parsing amount %q: %w", row.Get("amount"), err)
	}
	if row.Has("credit") {
		amount = amount.Neg()
	}

	var location string
	if row.Has("city") && row.Has("state") {
		location = row.Get("city") + " " + row.Get("state")
	}

	return Record{
		Kind:        kind,
		ID:          row.Get("id"),
		Date:        date,
		Description: row.Get("desc"),
		Location:    location,
		Amount:      amount,
		VolumeOK:    true,
	}, nil
}

// resolveDate places a day/month pair in the statement's year, rolling
// back one year when the result would postdate the statement itself.
func resolveDate(stmtDate time.Time, month, day int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	date := time.Date(stmtDate.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return time.Time{}, fmt.Errorf("day %d out of range for month %d", day, month)
	}
	if date.After(stmtDate) {
		date = date.AddDate(-1, 0, 0)
	}
	return date, nil
}

// NewAccountOp builds a checking-account operation record from a row
// with date ("DD MON"), code, desc, withdrawal/deposit and balance
// columns. The statement year comes from the document header.
func NewAccountOp(row table.Row, year int, labels config.Labels) (Record, error) {
	parts := strings.Fields(row.Get("date"))
	if len(parts) != 2 {
		return Record{}, fmt.Errorf("malformed operation date %q", row.Get("date"))
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return Record{}, fmt.Errorf("parsing day %q: %w", parts[0], err)
	}
	month, err := labels.MonthNumber(parts[1])
	if err != nil {
		return Record{}, err
	}

	var amount decimal.Decimal
	switch {
	case row.Get("withdrawal") != "":
		amount, err = ParseMoney(row.Get("withdrawal"))
		amount = amount.Neg()
	case row.Get("deposit") != "":
		amount, err = ParseMoney(row.Get("deposit"))
	default:
		return Record{}, fmt.Errorf("operation row has neither withdrawal nor deposit")
	}
	if err != nil {
		return Record{}, fmt.Errorf("parsing operation amount: %w", err)
	}

	balance, err := ParseMoney(row.Get("balance"))
	if err != nil {
		return Record{}, fmt.Errorf("parsing balance %q: %w", row.Get("balance"), err)
	}

	return Record{
		Kind:        KindAccountOp,
		Date:        time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		Description: row.Get("desc"),
		Code:        row.Get("code"),
		Amount:      amount,
		Balance:     balance,
		HasBalance:  true,
	}, nil
}

// ParseMoney parses a statement money string: currency signs, regular
// and non-breaking spaces stripped, comma accepted as the decimal
// mark, and a trailing "-" meaning negative.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasSuffix(s, "-")
	s = strings.TrimSuffix(s, "-")
	s = strings.NewReplacer(" ", "", " ", "", "$", "", ",", ".").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing money %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

var labelAmountExp = regexp.MustCompile(`-?\d+\.\d{2}`)

// ParseLabelMoney extracts the first monetary amount from the free
// text following a singleton-value label, tolerating trailing
// currency markers.
func ParseLabelMoney(s string) (decimal.Decimal, error) {
	normalized := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(s)
	m := labelAmountExp.FindString(normalized)
	if m == "" {
		return decimal.Decimal{}, fmt.Errorf("no amount in %q", s)
	}
	return decimal.NewFromString(m)
}
