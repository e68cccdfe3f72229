package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/degenlabs/launchpad/internal/curve"
)

const baseTime = int64(1_700_000_000)

var antiBotYAML = `
name: anti-bot
phases:
  - name: rapid fire
    steps:
      - wallet: bot-1
        operation: buy
        amount_sol: 0.0001
        at_offset_seconds: 10
      - wallet: bot-1
        operation: buy
        amount_sol: 0.0001
        at_offset_seconds: 15
        expect_reject: transaction_cooldown
      - wallet: bot-1
        operation: buy
        amount_sol: 0.0001
        at_offset_seconds: 45
  - name: whale during launch window
    steps:
      - wallet: whale-1
        operation: buy
        amount_sol: 2.0
        at_offset_seconds: 60
        expect_reject: exceeds_protection_limit
  - name: oversized market impact
    steps:
      - wallet: whale-2
        operation: buy
        amount_sol: 0.1
        at_offset_seconds: 100
        expect_reject: slippage_exceeded
`

var graduationYAML = `
name: graduation
curve:
  graduation_threshold_sol: 0.0005
phases:
  - name: steady accumulation
    steps:
      - {wallet: w-1, operation: buy, amount_sol: 0.0001, at_offset_seconds: 10}
      - {wallet: w-2, operation: buy, amount_sol: 0.0001, at_offset_seconds: 11}
      - {wallet: w-3, operation: buy, amount_sol: 0.0001, at_offset_seconds: 12}
      - {wallet: w-4, operation: buy, amount_sol: 0.0001, at_offset_seconds: 13}
      - {wallet: w-5, operation: buy, amount_sol: 0.0001, at_offset_seconds: 14}
      - {wallet: w-6, operation: buy, amount_sol: 0.0001, at_offset_seconds: 15}
  - name: after graduation
    steps:
      - wallet: w-1
        operation: buy
        amount_sol: 0.0001
        at_offset_seconds: 60
        expect_reject: already_graduated
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func loadScenario(t *testing.T, content string) *Scenario {
	t.Helper()
	sc, err := NewManager(zap.NewNop()).Load(writeScenario(t, content))
	require.NoError(t, err)
	return sc
}

func TestLoadValidScenario(t *testing.T) {
	sc := loadScenario(t, antiBotYAML)

	assert.Equal(t, "anti-bot", sc.Name)
	require.Len(t, sc.Phases, 3)
	assert.Len(t, sc.Phases[0].Steps, 3)
	assert.Equal(t, OperationBuy, sc.Phases[0].Steps[0].Operation)
	assert.Equal(t, "transaction_cooldown", sc.Phases[0].Steps[1].ExpectReject)
}

func TestLoadSkipsInvalidSteps(t *testing.T) {
	sc := loadScenario(t, `
name: partial
phases:
  - name: mixed
    steps:
      - {wallet: a, operation: buy, amount_sol: 0.001, at_offset_seconds: 1}
      - {wallet: b, operation: burn, amount_sol: 0.001, at_offset_seconds: 2}
      - {wallet: "", operation: buy, amount_sol: 0.001, at_offset_seconds: 3}
      - {wallet: c, operation: sell, tokens: 0, at_offset_seconds: 4}
`)
	require.Len(t, sc.Phases, 1)
	assert.Len(t, sc.Phases[0].Steps, 1, "invalid steps are dropped, valid ones kept")
}

func TestLoadErrors(t *testing.T) {
	m := NewManager(zap.NewNop())

	_, err := m.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = m.Load(writeScenario(t, `name: empty`))
	assert.ErrorContains(t, err, "no phases")

	_, err = m.Load(writeScenario(t, `
name: all-invalid
phases:
  - name: p
    steps:
      - {wallet: a, operation: stake, amount_sol: 1, at_offset_seconds: 1}
`))
	assert.ErrorContains(t, err, "no valid steps")

	_, err = m.Load(writeScenario(t, `
name: time-travel
phases:
  - name: p
    steps:
      - {wallet: a, operation: buy, amount_sol: 0.001, at_offset_seconds: 10}
      - {wallet: b, operation: buy, amount_sol: 0.001, at_offset_seconds: 5}
`))
	assert.ErrorContains(t, err, "offsets must not decrease")
}

func TestScenarioParamsOverrides(t *testing.T) {
	sc := loadScenario(t, graduationYAML)

	params, err := sc.Params()
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000), params.GraduationThreshold)
	assert.Equal(t, curve.CurveExponential, params.CurveType, "defaults survive unset overrides")

	bad := &Scenario{Curve: CurveOverrides{CurveType: "parabolic"}}
	_, err = bad.Params()
	assert.Error(t, err)
}

func TestRunAntiBotStoryline(t *testing.T) {
	sc := loadScenario(t, antiBotYAML)
	params, err := sc.Params()
	require.NoError(t, err)
	engine, err := curve.New(params, baseTime, zap.NewNop())
	require.NoError(t, err)

	summary, err := NewRunner(zap.NewNop()).Run(engine, sc, baseTime)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 3, summary.Rejected)
	assert.Equal(t, 1, summary.RejectedByReason[curve.ReasonTransactionCooldown])
	assert.Equal(t, 1, summary.RejectedByReason[curve.ReasonExceedsProtectionLimit])
	assert.Equal(t, 1, summary.RejectedByReason[curve.ReasonSlippageExceeded])
	assert.Equal(t, uint64(198), summary.FinalState.TotalSupply, "two accepted buys of 99 tokens")
	assert.Nil(t, summary.Graduation)
}

func TestRunGraduationStoryline(t *testing.T) {
	sc := loadScenario(t, graduationYAML)
	params, err := sc.Params()
	require.NoError(t, err)
	engine, err := curve.New(params, baseTime, zap.NewNop())
	require.NoError(t, err)

	summary, err := NewRunner(zap.NewNop()).Run(engine, sc, baseTime)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Accepted)
	assert.Equal(t, 1, summary.RejectedByReason[curve.ReasonAlreadyGraduated])
	assert.True(t, summary.FinalState.Graduated)
	require.NotNil(t, summary.Graduation)
	assert.Equal(t, uint64(594_000), summary.Graduation.TreasuryAtGraduation)
}

func TestRunFailsOnContradictedExpectation(t *testing.T) {
	sc := &Scenario{
		Name: "wrong-expectation",
		Phases: []Phase{{
			Name: "p",
			Steps: []Step{{
				Wallet:          "a",
				Operation:       OperationBuy,
				AmountSol:       0.0001,
				AtOffsetSeconds: 10,
				ExpectReject:    "transaction_cooldown",
			}},
		}},
	}
	engine, err := curve.New(curve.DefaultParams(), baseTime, zap.NewNop())
	require.NoError(t, err)

	_, err = NewRunner(zap.NewNop()).Run(engine, sc, baseTime)
	assert.ErrorContains(t, err, "trade was accepted")
}

// TestRunIsDeterministic replays the same file on two fresh engines and
// expects byte-for-byte equal ledgers.
func TestRunIsDeterministic(t *testing.T) {
	sc := loadScenario(t, antiBotYAML)
	params, err := sc.Params()
	require.NoError(t, err)

	run := func() *Summary {
		engine, err := curve.New(params, baseTime, zap.NewNop())
		require.NoError(t, err)
		summary, err := NewRunner(zap.NewNop()).Run(engine, sc, baseTime)
		require.NoError(t, err)
		return summary
	}

	first := run()
	second := run()

	assert.Equal(t, first.Accepted, second.Accepted)
	assert.Equal(t, first.Rejected, second.Rejected)
	assert.Equal(t, first.RejectedByReason, second.RejectedByReason)
	assert.Equal(t, first.FinalState, second.FinalState)
}
