package export

import (
	"fmt"
	"io"
)

// WritePretty renders a fixed-width listing followed by the
// reconciled totals block.
func WritePretty(w io.Writer, st Statement) error {
	if st.Account != "" {
		if _, err := fmt.Fprintf(w, "Account %s\n", st.Account); err != nil {
			return err
		}
	}
	if st.HasPeriod {
		if _, err := fmt.Fprintf(w, "Period  %s to %s\n",
			st.PeriodStart.Format("2006-01-02"), st.PeriodEnd.Format("2006-01-02")); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "Date    %s\n", st.Date.Format("2006-01-02")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for _, r := range st.Records {
		desc := r.Description
		if r.Location != "" {
			desc += " " + r.Location
		}
		marker := " "
		if r.Kind.Synthetic() {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s %-4s %-45s %10s %12s",
			r.Date.Format("2006-01-02"), marker, r.Code, desc,
			r.Amount.StringFixed(2), r.Running.StringFixed(2))
		if st.Summary.HasRewards {
			line += fmt.Sprintf(" %8s", r.Reward.StringFixed(2))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	sum := st.Summary
	if _, err := fmt.Fprintf(w, "\nBalance %s -> %s\n",
		sum.InitialBalance.StringFixed(2), sum.FinalBalance.StringFixed(2)); err != nil {
		return err
	}
	if !sum.PurchaseVolume().IsZero() {
		if _, err := fmt.Fprintf(w, "Volume  %s -> %s (purchases %s)\n",
			sum.InitialVolume.StringFixed(2), sum.FinalVolume.StringFixed(2),
			sum.PurchaseVolume().StringFixed(2)); err != nil {
			return err
		}
	}
	if sum.HasRewards {
		if _, err := fmt.Fprintf(w, "Rewards %s + %s + %s + %s = %s\n",
			sum.RewardInitial.StringFixed(2), sum.RewardReceived.StringFixed(2),
			sum.RewardSpent.StringFixed(2), sum.RewardAdjustment.StringFixed(2),
			sum.RewardFinal.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}
