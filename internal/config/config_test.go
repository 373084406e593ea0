package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplates(t *testing.T) {
	credit := CreditCard()
	assert.Equal(t, 4.8, credit.CharWidth)
	assert.Equal(t, 6.288, credit.CharHeight)
	assert.Equal(t, 319.118, credit.PageOffset)
	assert.False(t, credit.NoSplit)

	account := CheckingAccount()
	assert.Equal(t, 8.0, account.CharHeight)
	assert.Equal(t, 4.0, account.LineSpacing)
	assert.True(t, account.NoSplit)
}

func TestTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, Save(path, CreditCard()))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CreditCard(), loaded)
}

func TestLoadTemplate_ZeroCharWidth(t *testing.T) {
	tmpl := CreditCard()
	tmpl.CharWidth = 0
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, Save(path, tmpl))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "char_width")

	// NoSplit templates never divide by the glyph width.
	tmpl.NoSplit = true
	assert.NoError(t, tmpl.Validate())
}

func TestTemplateValidate(t *testing.T) {
	assert.NoError(t, CreditCard().Validate())
	assert.NoError(t, CheckingAccount().Validate())

	bad := CreditCard()
	bad.CharHeight = 0
	assert.Error(t, bad.Validate())

	bad = CheckingAccount()
	bad.LineSpacing = -1
	assert.Error(t, bad.Validate())
}

func TestLoadTemplate_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFrenchLabels(t *testing.T) {
	l := French()

	n, err := l.MonthNumber("NOV")
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	_, err = l.MonthNumber("XXX")
	assert.Error(t, err)

	assert.Len(t, l.Months, 12)
	assert.NotEmpty(t, l.RewardPatterns)
}

func TestDefaultAccountLayout(t *testing.T) {
	layout := DefaultAccountLayout()
	assert.Equal(t, 35.95, layout.AccountX)
	require.Len(t, layout.Columns, 7)

	byName := map[string]ColumnSpec{}
	for _, c := range layout.Columns {
		byName[c.Name] = c
	}
	assert.True(t, byName["desc"].Multiline)
	assert.True(t, byName["withdrawal"].Optional)
	assert.True(t, byName["deposit"].Optional)
	assert.False(t, byName["balance"].Optional)
}

func TestLayoutRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, SaveAccountLayout(path, DefaultAccountLayout()))

	loaded, err := LoadAccountLayout(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAccountLayout(), loaded)
}
