package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Labels is the per-locale label set used to locate sections, tables
// and singleton values inside a statement. Header matching is by line
// prefix, so each label must match the document text exactly.
type Labels struct {
	SummaryHeader      string `yaml:"summary_header"`
	PrevBalanceLabel   string `yaml:"prev_balance_label"`
	CurrBalanceLabel   string `yaml:"curr_balance_label"`
	TransactionsHeader string `yaml:"transactions_header"`
	CardTableHeader    string `yaml:"card_table_header"`
	OperationsHeader   string `yaml:"operations_header"`
	VolumeHeader       string `yaml:"volume_header"`
	RewardHeader       string `yaml:"reward_header"`

	// CarriedForward marks the line holding a checking account's
	// carried-forward balance.
	CarriedForward string `yaml:"carried_forward"`

	// RewardPatterns are description substrings identifying reward
	// spending transactions.
	RewardPatterns []string `yaml:"reward_patterns"`

	// Months are the statement's three-letter month abbreviations,
	// January first.
	Months []string `yaml:"months"`

	// RewardSpendingDesc and RewardAdjustmentDesc name the synthetic
	// records produced by reconciliation.
	RewardSpendingDesc   string `yaml:"reward_spending_desc"`
	RewardAdjustmentDesc string `yaml:"reward_adjustment_desc"`
}

// French returns the built-in French label set.
func French() Labels {
	return Labels{
		SummaryHeader:      "SOMMAIRE DES TRANSACTIONS COURANTES",
		PrevBalanceLabel:   "Solde précédent",
		CurrBalanceLabel:   "Nouveau solde courant =",
		TransactionsHeader: "DESCRIPTION DES TRANSACTIONS COURANTES",
		CardTableHeader:    "Transactions effectuées avec la carte de",
		OperationsHeader:   "Opérations au compte",
		VolumeHeader:       "VOLUME D'ACHATS ANNUEL",
		RewardHeader:       "PROGRAMME DE RÉCOMPENSES - CARTES DESJARDINS",
		CarriedForward:     "reporté",
		RewardPatterns: []string{
			"CRÉDIT DONS BONIDOLLARS",
			"CRÉDIT VOYAGE BONI DESJARDINS",
		},
		Months: []string{
			"JAN", "FEV", "MAR", "AVR", "MAI", "JUN",
			"JUL", "AOU", "SEP", "OCT", "NOV", "DEC",
		},
		RewardSpendingDesc:   "Crédit Bonidollars",
		RewardAdjustmentDesc: "Ajustement Bonidollars",
	}
}

// MonthNumber resolves a month abbreviation to its 1-based number.
func (l Labels) MonthNumber(abbr string) (int, error) {
	for i, m := range l.Months {
		if m == abbr {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unknown month abbreviation %q", abbr)
}

// LoadLabels reads a label set from a YAML file.
func LoadLabels(path string) (Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Labels{}, fmt.Errorf("reading labels: %w", err)
	}
	var l Labels
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Labels{}, fmt.Errorf("parsing labels: %w", err)
	}
	return l, nil
}
