package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BoxSpec is a rectangular page region in a layout file.
type BoxSpec struct {
	X1 float64 `yaml:"x1"`
	X2 float64 `yaml:"x2"`
	Y1 float64 `yaml:"y1"`
	Y2 float64 `yaml:"y2"`
}

// ColumnSpec declares one table column in a layout file. Alignment is
// one of "left", "right" or "center".
type ColumnSpec struct {
	Name      string  `yaml:"name"`
	Position  float64 `yaml:"position"`
	Align     string  `yaml:"align"`
	MaxWidth  float64 `yaml:"max_width"`
	Optional  bool    `yaml:"optional,omitempty"`
	Multiline bool    `yaml:"multiline,omitempty"`
	Key       bool    `yaml:"key,omitempty"`
}

// AccountLayout positions the fixed elements of a checking-account
// statement: the account-number anchor column, the statement period
// box, and the operations table columns.
type AccountLayout struct {
	// AccountX is the left edge shared by all account-number anchors.
	AccountX float64 `yaml:"account_x"`
	// DateBox bounds the statement period words on the first page.
	DateBox BoxSpec `yaml:"date_box"`
	// Columns are the operations table columns.
	Columns []ColumnSpec `yaml:"columns"`
}

// CreditLayout positions the fixed elements of a credit-card
// statement. Transaction columns are anchored on the first transaction
// row at parse time, so only absolute regions live here.
type CreditLayout struct {
	// DateBox bounds the statement date words (day month year).
	DateBox BoxSpec `yaml:"date_box"`
	// VolumeColumns and RewardColumns are the summary table columns.
	VolumeColumns []ColumnSpec `yaml:"volume_columns"`
	RewardColumns []ColumnSpec `yaml:"reward_columns"`
}

// DefaultAccountLayout returns the built-in checking-account layout.
func DefaultAccountLayout() AccountLayout {
	return AccountLayout{
		AccountX: 35.95,
		DateBox:  BoxSpec{X1: 425, X2: 575, Y1: 37, Y2: 50},
		Columns: []ColumnSpec{
			{Name: "date", Position: 69.714, Align: "right", MaxWidth: 25},
			{Name: "code", Position: 74.300, Align: "left", MaxWidth: 23.544},
			{Name: "desc", Position: 98.300, Align: "left", MaxWidth: 239, Multiline: true},
			{Name: "fees", Position: 540.00, Align: "left", MaxWidth: 25, Optional: true},
			{Name: "withdrawal", Position: 447.83, Align: "right", MaxWidth: 70, Optional: true},
			{Name: "deposit", Position: 519.78, Align: "right", MaxWidth: 70, Optional: true},
			{Name: "balance", Position: 587.65, Align: "right", MaxWidth: 65},
		},
	}
}

// DefaultCreditLayout returns the built-in credit-card layout.
func DefaultCreditLayout() CreditLayout {
	return CreditLayout{
		DateBox: BoxSpec{X1: 100, X2: 195, Y1: 96, Y2: 104},
		VolumeColumns: []ColumnSpec{
			{Name: "initial", Position: 124.75, Align: "center", MaxWidth: 100},
			{Name: "current", Position: 230.25, Align: "center", MaxWidth: 100},
			{Name: "final", Position: 383.70, Align: "right", MaxWidth: 100},
		},
		RewardColumns: []ColumnSpec{
			{Name: "initial", Position: 124.575, Align: "center", MaxWidth: 80},
			{Name: "received", Position: 220.65, Align: "center", MaxWidth: 80},
			{Name: "spent", Position: 306.95, Align: "center", MaxWidth: 80},
			{Name: "adjustment", Position: 393.30, Align: "center", MaxWidth: 80},
			{Name: "final", Position: 489.20, Align: "center", MaxWidth: 80},
		},
	}
}

// SaveAccountLayout writes an AccountLayout to a YAML file.
func SaveAccountLayout(path string, l AccountLayout) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshaling layout: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadAccountLayout reads an AccountLayout from a YAML file.
func LoadAccountLayout(path string) (AccountLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AccountLayout{}, fmt.Errorf("reading layout: %w", err)
	}
	var l AccountLayout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return AccountLayout{}, fmt.Errorf("parsing layout: %w", err)
	}
	return l, nil
}
