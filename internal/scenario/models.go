// internal/scenario/models.go
package scenario

// OperationType identifies what a scenario step does to the curve.
type OperationType string

const (
	OperationBuy  OperationType = "buy"
	OperationSell OperationType = "sell"
)

// Step is one trade attempt in a scenario. Time is expressed as an offset
// from the scenario base timestamp, so replays are position-independent.
type Step struct {
	Wallet    string        `yaml:"wallet"`
	Operation OperationType `yaml:"operation"`
	// AmountSol is the buy value in SOL. Ignored for sells.
	AmountSol float64 `yaml:"amount_sol"`
	// Tokens is the sell amount. Ignored for buys.
	Tokens uint64 `yaml:"tokens"`
	// AtOffsetSeconds places the step relative to curve creation.
	AtOffsetSeconds int64 `yaml:"at_offset_seconds"`
	// ExpectReject optionally names the rejection reason this step must
	// produce; the runner fails the scenario if the outcome differs.
	ExpectReject string `yaml:"expect_reject"`
}

// Phase groups steps into a named storyline segment.
type Phase struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// CurveOverrides tweaks the engine parameters for one scenario without a
// separate config file. Zero values leave the defaults untouched.
type CurveOverrides struct {
	CurveType              string  `yaml:"curve_type"`
	GraduationThresholdSol float64 `yaml:"graduation_threshold_sol"`
	CooldownSeconds        int64   `yaml:"cooldown_seconds"`
	ProtectionPeriodSec    int64   `yaml:"protection_period_seconds"`
	MaxBuyDuringProtection float64 `yaml:"max_buy_during_protection_sol"`
}

// Scenario is a deterministic trading storyline replayed against one curve.
type Scenario struct {
	Name   string         `yaml:"name"`
	Curve  CurveOverrides `yaml:"curve"`
	Phases []Phase        `yaml:"phases"`
}
