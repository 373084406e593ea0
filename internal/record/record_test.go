package record

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/releve-dev/releve/internal/config"
	"github.com/releve-dev/releve/internal/table"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cardRow(t *testing.T, fields map[string]string) table.Row {
	t.Helper()
	row := table.NewRow()
	for k, v := range fields {
		row.Set(k, v)
	}
	return row
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123,45", "123.45"},
		{"1 234,56", "1234.56"},
		{"12.34", "12.34"},
		{"123,45-", "-123.45"},
		{"-5,00", "-5.00"},
		{"1 000,00 $", "1000.00"},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, dec(tc.want).Equal(got), "%s -> %s, want %s", tc.in, got, tc.want)
	}

	_, err := ParseMoney("n/a")
	assert.Error(t, err)
}

func TestParseLabelMoney(t *testing.T) {
	got, err := ParseLabelMoney("1 234,56 $ CR")
	require.NoError(t, err)
	assert.True(t, dec("1234.56").Equal(got))

	_, err = ParseLabelMoney("aucun montant")
	assert.Error(t, err)
}

func TestNewPurchase(t *testing.T) {
	stmt := date(2016, time.December, 21)
	row := cardRow(t, map[string]string{
		"id":     "003",
		"day":    "5",
		"month":  "12",
		"desc":   "RESTAURANT CHEZ PAUL",
		"city":   "MONTREAL",
		"state":  "QC",
		"amount": "45,10",
	})

	r, err := NewPurchase(row, stmt)
	require.NoError(t, err)
	assert.Equal(t, KindPurchase, r.Kind)
	assert.Equal(t, date(2016, time.December, 5), r.Date)
	assert.Equal(t, "MONTREAL QC", r.Location)
	assert.True(t, dec("45.10").Equal(r.Amount))
	assert.True(t, r.VolumeEligible())
}

func TestNewPurchase_YearRollback(t *testing.T) {
	// A December purchase on a January statement belongs to the
	// previous year.
	stmt := date(2017, time.January, 20)
	row := cardRow(t, map[string]string{
		"id": "001", "day": "28", "month": "12",
		"desc": "X", "amount": "1,00",
	})

	r, err := NewPurchase(row, stmt)
	require.NoError(t, err)
	assert.Equal(t, date(2016, time.December, 28), r.Date)
}

func TestNewPurchase_CreditNegates(t *testing.T) {
	stmt := date(2016, time.December, 21)
	row := cardRow(t, map[string]string{
		"id": "002", "day": "1", "month": "12",
		"desc": "REMBOURSEMENT", "amount": "30,00", "credit": "CR",
	})

	r, err := NewPurchase(row, stmt)
	require.NoError(t, err)
	assert.True(t, dec("-30.00").Equal(r.Amount))
}

func TestNewPurchase_BadDate(t *testing.T) {
	stmt := date(2016, time.December, 21)
	row := cardRow(t, map[string]string{
		"id": "001", "day": "31", "month": "11",
		"desc": "X", "amount": "1,00",
	})
	_, err := NewPurchase(row, stmt)
	assert.Error(t, err)
}

func TestNewOperation_VolumeOnlyForRewardSpending(t *testing.T) {
	stmt := date(2016, time.December, 21)
	labels := config.French()

	row := cardRow(t, map[string]string{
		"id": "004", "day": "2", "month": "12",
		"desc": "PAIEMENT CAISSE", "amount": "200,00", "credit": "CR",
	})
	r, err := NewOperation(row, stmt, labels)
	require.NoError(t, err)
	assert.False(t, r.VolumeEligible())

	row = cardRow(t, map[string]string{
		"id": "005", "day": "3", "month": "12",
		"desc": "CRÉDIT VOYAGE BONI DESJARDINS", "amount": "50,00", "credit": "CR",
	})
	r, err = NewOperation(row, stmt, labels)
	require.NoError(t, err)
	assert.True(t, r.VolumeEligible())
}

func TestNewAccountOp(t *testing.T) {
	labels := config.French()

	row := cardRow(t, map[string]string{
		"date": "15 NOV", "code": "RA", "desc": "RETRAIT AU COMPTOIR",
		"withdrawal": "120,00", "balance": "1 530,25",
	})
	r, err := NewAccountOp(row, 2016, labels)
	require.NoError(t, err)
	assert.Equal(t, KindAccountOp, r.Kind)
	assert.Equal(t, date(2016, time.November, 15), r.Date)
	assert.True(t, dec("-120.00").Equal(r.Amount))
	require.True(t, r.HasBalance)
	assert.True(t, dec("1530.25").Equal(r.Balance))
	assert.Equal(t, "RA", r.Code)

	row = cardRow(t, map[string]string{
		"date": "16 NOV", "code": "DP", "desc": "DEPOT",
		"deposit": "500,00", "balance": "2 030,25",
	})
	r, err = NewAccountOp(row, 2016, labels)
	require.NoError(t, err)
	assert.True(t, dec("500.00").Equal(r.Amount))
}

func TestNewAccountOp_NegativeBalance(t *testing.T) {
	labels := config.French()
	row := cardRow(t, map[string]string{
		"date": "2 JAN", "code": "FR", "desc": "FRAIS",
		"withdrawal": "10,00", "balance": "4,50-",
	})
	r, err := NewAccountOp(row, 2017, labels)
	require.NoError(t, err)
	assert.True(t, dec("-4.50").Equal(r.Balance))
}

func TestCalculateReward(t *testing.T) {
	r := Record{Amount: dec("100.00"), VolumeOK: true}
	r.CalculateReward(dec("1000"), dec("1"), dec("2"))
	assert.True(t, dec("1.00").Equal(r.Reward))

	r = Record{Amount: dec("100.00"), VolumeOK: true}
	r.CalculateReward(dec("25000"), dec("1"), dec("2"))
	assert.True(t, dec("2.00").Equal(r.Reward), "extra rate above volume threshold")

	r = Record{Amount: dec("100.00"), VolumeOK: true, Skipped: true}
	r.CalculateReward(dec("1000"), dec("1"), dec("2"))
	assert.True(t, r.Reward.IsZero(), "skipped records earn nothing")
}
