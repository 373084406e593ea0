package table

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/releve-dev/releve/internal/doc"
)

func lineOf(words ...doc.Word) doc.Line {
	return doc.NewLine(words)
}

func parseMoney(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func TestSection_ValuePrecedence(t *testing.T) {
	s := NewSection("SUMMARY")
	s.AddValue(Value{Label: "Previous balance", Name: "initial", Parse: parseMoney})
	// A table that would also match the line if values did not win.
	s.AddTable(New("noise", "", []Column{
		{Name: "any", Position: 0, Align: Left, MaxWidth: 600},
	}))
	s.Begin()

	s.ParseLine(lineOf(
		w("Previous", 0, 40),
		w("balance", 45, 80),
		w("123.45", 90, 120),
	), testTmpl, zerolog.Nop())

	require.Contains(t, s.Scalars, "initial")
	assert.True(t, decimal.RequireFromString("123.45").Equal(s.Scalars["initial"]))
	assert.Empty(t, s.Rows, "value lines never reach table dispatch")
}

func TestSection_UnparseableValueIgnored(t *testing.T) {
	s := NewSection("SUMMARY")
	s.AddValue(Value{Label: "Previous balance", Name: "initial", Parse: parseMoney})
	s.Begin()

	s.ParseLine(lineOf(
		w("Previous", 0, 40),
		w("balance", 45, 80),
	), testTmpl, zerolog.Nop())

	assert.NotContains(t, s.Scalars, "initial")
}

func TestSection_TableTriggerActivation(t *testing.T) {
	s := NewSection("TRANSACTIONS")
	s.AddTable(New("card", "Card purchases", opsColumns()))
	s.Begin()

	// Before the trigger, table lines contribute nothing.
	s.ParseLine(lineOf(
		w("1 JAN", 50, 69),
		w("RENT", 100, 120),
		w("900,00", 466, 499),
	), testTmpl, zerolog.Nop())
	assert.Empty(t, s.Rows)

	s.ParseLine(lineOf(w("Card", 0, 20), w("purchases", 25, 70)), testTmpl, zerolog.Nop())
	s.ParseLine(lineOf(
		w("1 JAN", 50, 69),
		w("RENT", 100, 120),
		w("900,00", 466, 499),
	), testTmpl, zerolog.Nop())

	require.Len(t, s.Rows, 1)
	assert.Equal(t, "card", s.Rows[0].Table)
	assert.Equal(t, "RENT", s.Rows[0].Row.Get("desc"))
}

func TestSection_EmptyTriggerAlwaysActive(t *testing.T) {
	s := NewSection("VOLUME")
	s.AddTable(New("volume", "", []Column{
		{Name: "final", Position: 380, Align: Right, MaxWidth: 100},
	}))
	s.Begin()

	s.ParseLine(lineOf(w("19 000,00", 300, 379)), testTmpl, zerolog.Nop())
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "19 000,00", s.Rows[0].Row.Get("final"))
}

func TestParser_SectionSwitching(t *testing.T) {
	page := &doc.Page{Index: 1, Width: 612, Height: 792, Words: []doc.Word{
		// Header of section A.
		wAt("SECTION", 0, 40, 10, 18),
		wAt("ONE", 45, 60, 10, 18),
		// A row while A is active.
		wAt("1 JAN", 50, 69, 30, 38),
		wAt("RENT", 100, 120, 30, 38),
		wAt("900,00", 466, 499, 30, 38),
		// Header of section B.
		wAt("SECTION", 0, 40, 60, 68),
		wAt("TWO", 45, 62, 60, 68),
		// A row that must land in B, not A.
		wAt("2 JAN", 50, 69, 90, 98),
		wAt("PHONE", 100, 125, 90, 98),
		wAt("850,00", 466, 499, 90, 98),
	}}
	st := &doc.Statement{Pages: []*doc.Page{page}}

	a := NewSection("SECTION ONE")
	a.AddTable(New("a", "", opsColumns()))
	b := NewSection("SECTION TWO")
	b.AddTable(New("b", "", opsColumns()))

	p := NewParser(zerolog.Nop())
	p.Add(a)
	p.Add(b)
	p.Run(st, testTmpl)

	require.Len(t, a.Rows, 1)
	assert.Equal(t, "RENT", a.Rows[0].Row.Get("desc"))
	require.Len(t, b.Rows, 1)
	assert.Equal(t, "PHONE", b.Rows[0].Row.Get("desc"))
}

func TestParser_NoSectionIgnoresLines(t *testing.T) {
	page := &doc.Page{Index: 1, Width: 612, Height: 792, Words: []doc.Word{
		wAt("unaffiliated", 0, 60, 10, 18),
	}}
	st := &doc.Statement{Pages: []*doc.Page{page}}

	s := NewSection("NEVER MATCHED")
	s.AddTable(New("t", "", opsColumns()))

	p := NewParser(zerolog.Nop())
	p.Add(s)
	p.Run(st, testTmpl)

	assert.Empty(t, s.Rows)
	assert.Empty(t, s.Scalars)
}
