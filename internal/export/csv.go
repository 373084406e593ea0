package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{
	"date", "id", "code", "description", "location",
	"amount", "balance", "reward", "synthetic",
}

// WriteCSV renders one row per record. The balance column holds the
// reconciled running balance, the reward column the per-record reward
// earned (empty when the statement carries no reward program).
func WriteCSV(w io.Writer, st Statement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range st.Records {
		reward := ""
		if st.Summary.HasRewards && !r.Reward.IsZero() {
			reward = r.Reward.StringFixed(2)
		}
		synthetic := ""
		if r.Kind.Synthetic() {
			synthetic = "yes"
		}
		row := []string{
			r.Date.Format("2006-01-02"),
			r.ID,
			r.Code,
			r.Description,
			r.Location,
			r.Amount.StringFixed(2),
			r.Running.StringFixed(2),
			reward,
			synthetic,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
