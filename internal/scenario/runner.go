// internal/scenario/runner.go
package scenario

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/degenlabs/launchpad/internal/curve"
)

// StepResult pairs a step with its trade outcome.
type StepResult struct {
	Phase string
	Step  Step
	Trade *curve.Trade
	Err   error
}

// Summary aggregates one scenario run.
type Summary struct {
	Scenario string
	Accepted int
	Rejected int
	// RejectedByReason counts rejections per reason code.
	RejectedByReason map[curve.RejectionReason]int
	Results          []StepResult

	FinalState curve.StateView
	Graduation *curve.GraduationEvent
}

// Runner replays scenarios against a curve engine with a simulated clock:
// every step executes at baseTime plus its declared offset, so a rerun of the
// same file produces the same accept/reject sequence and the same final
// ledger.
type Runner struct {
	logger *zap.Logger
}

// NewRunner constructs a Runner with the given logger.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger.Named("scenario_runner")}
}

// Run executes every phase in order. A rejection is a normal outcome and the
// run continues; the run fails only when a step's outcome contradicts its
// expect_reject annotation.
func (r *Runner) Run(engine *curve.Engine, sc *Scenario, baseTime int64) (*Summary, error) {
	summary := &Summary{
		Scenario:         sc.Name,
		RejectedByReason: make(map[curve.RejectionReason]int),
	}

	for _, phase := range sc.Phases {
		r.logger.Debug("Running phase",
			zap.String("scenario", sc.Name),
			zap.String("phase", phase.Name),
			zap.Int("steps", len(phase.Steps)))

		for i, step := range phase.Steps {
			now := baseTime + step.AtOffsetSeconds

			var trade *curve.Trade
			var err error
			switch step.Operation {
			case OperationBuy:
				trade, err = engine.Buy(curve.LamportsFromSol(step.AmountSol), step.Wallet, now)
			case OperationSell:
				trade, err = engine.Sell(step.Tokens, step.Wallet, now)
			}

			summary.Results = append(summary.Results, StepResult{
				Phase: phase.Name,
				Step:  step,
				Trade: trade,
				Err:   err,
			})

			if err != nil {
				reason, ok := curve.IsRejection(err)
				if !ok {
					return nil, fmt.Errorf("phase %q step %d: %w", phase.Name, i, err)
				}
				summary.Rejected++
				summary.RejectedByReason[reason]++
				if step.ExpectReject != "" && step.ExpectReject != string(reason) {
					return nil, fmt.Errorf("phase %q step %d: expected rejection %q, got %q",
						phase.Name, i, step.ExpectReject, reason)
				}
				continue
			}

			summary.Accepted++
			if step.ExpectReject != "" {
				return nil, fmt.Errorf("phase %q step %d: expected rejection %q, trade was accepted",
					phase.Name, i, step.ExpectReject)
			}
		}
	}

	summary.FinalState = engine.State()
	if event, ok := engine.GraduationEvent(); ok {
		summary.Graduation = &event
	}

	r.logger.Info("Scenario finished",
		zap.String("scenario", sc.Name),
		zap.Int("accepted", summary.Accepted),
		zap.Int("rejected", summary.Rejected),
		zap.Uint64("final_supply", summary.FinalState.TotalSupply),
		zap.Bool("graduated", summary.FinalState.Graduated))

	return summary, nil
}
