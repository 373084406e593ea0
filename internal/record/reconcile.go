package record

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/releve-dev/releve/internal/config"
)

// ReconcileError reports a divergence between a computed running
// figure and a document-reported checkpoint. It always indicates an
// upstream misparse (misaligned column, missed row, wrong sign) and is
// fatal: no output may be produced after one.
type ReconcileError struct {
	Field    string // "balance", "volume" or "reward"
	RecordID string // offending record, "" for final checkpoints
	Index    int    // record index, -1 for final checkpoints
	Reported decimal.Decimal
	Computed decimal.Decimal
}

func (e *ReconcileError) Error() string {
	where := "final checkpoint"
	if e.Index >= 0 {
		where = fmt.Sprintf("record %d", e.Index)
		if e.RecordID != "" {
			where += " (id " + e.RecordID + ")"
		}
	}
	return fmt.Sprintf("%s mismatch at %s: document reports %s, computed %s",
		e.Field, where, e.Reported.StringFixed(2), e.Computed.StringFixed(2))
}

// Options carries the document-reported checkpoint figures and the
// reward parameters for one reconciliation pass.
type Options struct {
	InitialBalance  decimal.Decimal
	FinalBalance    decimal.Decimal
	HasFinalBalance bool

	InitialVolume  decimal.Decimal
	FinalVolume    decimal.Decimal
	HasFinalVolume bool

	// Reward summary figures as reported by the document.
	RewardInitial    decimal.Decimal
	RewardReceived   decimal.Decimal
	RewardSpent      decimal.Decimal
	RewardAdjustment decimal.Decimal
	RewardFinal      decimal.Decimal
	HasRewardSummary bool

	// Rate and ExtraRate are reward percentages; the extra rate
	// applies once the accumulated volume passes the threshold.
	Rate      decimal.Decimal
	ExtraRate decimal.Decimal

	// Skip excludes record IDs from volume and reward accumulation.
	Skip map[string]bool

	StatementDate time.Time
	Labels        config.Labels

	// Strict turns an unexplained reward rounding residue above one
	// cent into a failure instead of folding it into the synthetic
	// adjustment record.
	Strict bool
}

// Summary is the reconciled totals block.
type Summary struct {
	InitialBalance decimal.Decimal
	FinalBalance   decimal.Decimal

	InitialVolume decimal.Decimal
	FinalVolume   decimal.Decimal

	HasRewards       bool
	RewardInitial    decimal.Decimal
	RewardReceived   decimal.Decimal
	RewardSpent      decimal.Decimal
	RewardAdjustment decimal.Decimal
	RewardFinal      decimal.Decimal
}

// PurchaseVolume returns the volume accumulated over the statement.
func (s Summary) PurchaseVolume() decimal.Decimal {
	return s.FinalVolume.Sub(s.InitialVolume)
}

var cent = decimal.New(1, -2)

// Reconcile applies records in document order: the running balance
// adds each signed amount (rounded to cents per step) and must agree
// with every balance the document itself reports; a parallel volume
// accumulator covers eligible records. Reported-but-unobserved reward
// spending and any reward residue are emitted as synthetic records so
// the ledger closes exactly. The input slice is not modified and the
// pass is a pure function of (options, ordered records).
func Reconcile(records []Record, opts Options) ([]Record, Summary, error) {
	out := slices.Clone(records)

	balance := opts.InitialBalance
	volume := opts.InitialVolume
	received := decimal.Zero
	spent := decimal.Zero

	for i := range out {
		r := &out[i]
		balance = balance.Add(r.Amount).Round(2)

		if opts.Skip[r.ID] {
			r.Skipped = true
		}
		r.CalculateReward(volume, opts.Rate, opts.ExtraRate)
		received = received.Add(r.Reward)

		if r.VolumeEligible() {
			volume = volume.Add(r.Amount).Round(2)
		}
		if r.IsRewardSpending(opts.Labels.RewardPatterns) {
			spent = spent.Add(r.Amount)
		}

		if r.HasBalance && !balance.Equal(r.Balance) {
			return nil, Summary{}, &ReconcileError{
				Field:    "balance",
				RecordID: r.ID,
				Index:    i,
				Reported: r.Balance,
				Computed: balance,
			}
		}
		r.Running = balance
	}

	if opts.HasFinalBalance && !balance.Equal(opts.FinalBalance) {
		return nil, Summary{}, &ReconcileError{
			Field:    "balance",
			Index:    -1,
			Reported: opts.FinalBalance,
			Computed: balance,
		}
	}
	if opts.HasFinalVolume && !volume.Equal(opts.FinalVolume) {
		return nil, Summary{}, &ReconcileError{
			Field:    "volume",
			Index:    -1,
			Reported: opts.FinalVolume,
			Computed: volume,
		}
	}

	sum := Summary{
		InitialBalance: opts.InitialBalance,
		FinalBalance:   balance,
		InitialVolume:  opts.InitialVolume,
		FinalVolume:    volume,
	}

	if opts.HasRewardSummary {
		// Reward spending the document reports but no parsed record
		// accounts for: keep the ledger closed with a synthetic entry.
		if !spent.Equal(opts.RewardSpent) {
			out = append(out, Record{
				Kind:        KindRewardSpending,
				ID:          "888",
				Date:        opts.StatementDate,
				Description: opts.Labels.RewardSpendingDesc,
				Reward:      opts.RewardSpent.Sub(spent),
				Running:     balance,
			})
		}

		residue := opts.RewardReceived.Sub(received)
		if opts.Strict && residue.Abs().GreaterThan(cent) {
			return nil, Summary{}, &ReconcileError{
				Field:    "reward",
				Index:    -1,
				Reported: opts.RewardReceived,
				Computed: received,
			}
		}

		adjustment := opts.RewardAdjustment.Add(residue)
		if !adjustment.IsZero() {
			out = append(out, Record{
				Kind:        KindRewardAdjustment,
				ID:          "999",
				Date:        opts.StatementDate,
				Description: opts.Labels.RewardAdjustmentDesc,
				Reward:      adjustment,
				Running:     balance,
			})
		}

		sum.HasRewards = true
		sum.RewardInitial = opts.RewardInitial
		sum.RewardReceived = received.Add(residue)
		sum.RewardSpent = opts.RewardSpent
		sum.RewardAdjustment = adjustment
		sum.RewardFinal = opts.RewardFinal
	}

	return out, sum, nil
}
