package commands

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bboxWord struct {
	content    string
	x, y, w, h float64
}

// accountBBox renders a pdftotext-style bbox stream for a one-page
// checking-account statement with two operations.
func accountBBox() []byte {
	const cw, ch = 4.8, 8.0
	word := func(content string, x, y float64) bboxWord {
		return bboxWord{content: content, x: x, y: y, w: cw * float64(len([]rune(content))), h: ch}
	}

	words := []bboxWord{
		// Statement period.
		word("Du", 430, 40), word("1", 445, 40), word("NOV", 455, 40),
		word("au", 475, 40), word("30", 485, 40), word("NOV", 495, 40),
		word("2016", 510, 40),
		// Account anchor.
		word("EOP123", 35.95, 100), word("AVEC", 90, 100), word("OPÉRATIONS", 120, 100),
		// Carried-forward balance.
		word("Solde", 60, 120), word("reporté", 90, 120),
		word("1", 400, 120), word("234,56", 410, 120),
	}

	type op struct {
		day, mon, code, desc string
		withdrawal, deposit  string
		balance              string
	}
	ops := []op{
		{"15", "NOV", "RA", "RETRAIT", "120,00", "", "1114,56"},
		{"16", "NOV", "DP", "DEPOT", "", "500,00", "1614,56"},
	}
	for i, o := range ops {
		y := 124.0 + float64(i)*12
		words = append(words,
			word(o.day, 46, y), word(o.mon, 57, y),
			word(o.code, 75, y), word(o.desc, 100, y))
		if o.withdrawal != "" {
			words = append(words, word(o.withdrawal, 447.83-cw*float64(len(o.withdrawal)), y))
		}
		if o.deposit != "" {
			words = append(words, word(o.deposit, 519.78-cw*float64(len(o.deposit)), y))
		}
		words = append(words, word(o.balance, 587.65-cw*float64(len(o.balance)), y))
	}

	var sb strings.Builder
	sb.WriteString(`<page width="612.000000" height="792.000000">` + "\n")
	for _, w := range words {
		fmt.Fprintf(&sb, `<word xMin="%.6f" yMin="%.6f" xMax="%.6f" yMax="%.6f">%s</word>`+"\n",
			w.x, w.y, w.x+w.w, w.y+w.h, w.content)
	}
	sb.WriteString("</page>\n")
	return []byte(sb.String())
}

func TestRunConvert_AccountCSV(t *testing.T) {
	opts := convertOptions{profile: "account", format: "csv"}
	out, err := runConvert(accountBBox(), opts, zerolog.Nop())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3, "header plus two operations")
	assert.Contains(t, lines[1], "2016-11-15")
	assert.Contains(t, lines[1], "RETRAIT")
	assert.Contains(t, lines[1], "-120.00")
	assert.Contains(t, lines[1], "1114.56")
	assert.Contains(t, lines[2], "500.00")
}

func TestRunConvert_AccountOFX(t *testing.T) {
	opts := convertOptions{profile: "account", format: "ofx"}
	out, err := runConvert(accountBBox(), opts, zerolog.Nop())
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "OFXHEADER:100"))
	assert.Contains(t, s, "<ACCTID>EOP123")
	assert.Contains(t, s, "<BALAMT>1614.56")
	assert.Contains(t, s, "<DTSTART>20161101")
}

func TestRunConvert_AccountPretty(t *testing.T) {
	opts := convertOptions{profile: "account", format: "pretty"}
	out, err := runConvert(accountBBox(), opts, zerolog.Nop())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Account EOP123")
	assert.Contains(t, s, "Balance 1234.56 -> 1614.56")
}

func TestRunConvert_UnknownProfile(t *testing.T) {
	_, err := runConvert(accountBBox(), convertOptions{profile: "nope", format: "csv"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown profile")
}

func TestRunConvert_UnknownFormat(t *testing.T) {
	_, err := runConvert(accountBBox(), convertOptions{profile: "account", format: "xml"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown format")
}

func TestRunConvert_BadReconciliation(t *testing.T) {
	// Corrupt one reported balance: the running total no longer
	// matches and nothing is emitted.
	data := strings.Replace(string(accountBBox()), "1114,56", "1115,56", 1)
	_, err := runConvert([]byte(data), convertOptions{profile: "account", format: "csv"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "releve", root.Name())

	names := make([]string, 0, 2)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "convert")
	assert.Contains(t, names, "serve")
}
