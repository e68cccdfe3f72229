// internal/scenario/manager.go
package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/degenlabs/launchpad/internal/curve"
)

// Manager loads and validates scenario definitions.
type Manager struct {
	logger *zap.Logger
}

// NewManager constructs a Manager with the given logger.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger.Named("scenario_manager")}
}

func parseOperation(s string) (OperationType, error) {
	op := OperationType(s)
	switch op {
	case OperationBuy, OperationSell:
		return op, nil
	default:
		return "", fmt.Errorf("unsupported operation: %q", s)
	}
}

// Load reads a scenario from a YAML file.
func (m *Manager) Load(path string) (*Scenario, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(cleanPath)
	}

	if err := m.validate(&sc); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	total := 0
	for _, phase := range sc.Phases {
		total += len(phase.Steps)
	}
	m.logger.Info("Loaded scenario",
		zap.String("name", sc.Name),
		zap.Int("phases", len(sc.Phases)),
		zap.Int("steps", total))

	return &sc, nil
}

// validate drops malformed steps with a warning and errors out when nothing
// runnable remains. Offsets must not move backwards inside a phase.
func (m *Manager) validate(sc *Scenario) error {
	if len(sc.Phases) == 0 {
		return fmt.Errorf("no phases defined")
	}

	runnable := 0
	for pi := range sc.Phases {
		phase := &sc.Phases[pi]
		kept := phase.Steps[:0]
		var prevOffset int64
		for _, step := range phase.Steps {
			op, err := parseOperation(string(step.Operation))
			if err != nil {
				m.logger.Warn("Skipping invalid step",
					zap.String("phase", phase.Name),
					zap.Error(err))
				continue
			}
			step.Operation = op

			if step.Wallet == "" {
				m.logger.Warn("Skipping step with no wallet", zap.String("phase", phase.Name))
				continue
			}
			if op == OperationBuy && step.AmountSol <= 0 {
				m.logger.Warn("Skipping buy step with invalid amount",
					zap.String("phase", phase.Name),
					zap.Float64("amount_sol", step.AmountSol))
				continue
			}
			if op == OperationSell && step.Tokens == 0 {
				m.logger.Warn("Skipping sell step with zero tokens",
					zap.String("phase", phase.Name))
				continue
			}
			if step.AtOffsetSeconds < prevOffset {
				return fmt.Errorf("phase %q: step offsets must not decrease", phase.Name)
			}
			prevOffset = step.AtOffsetSeconds

			kept = append(kept, step)
			runnable++
		}
		phase.Steps = kept
	}

	if runnable == 0 {
		return fmt.Errorf("no valid steps loaded")
	}
	return nil
}

// Params resolves the scenario's curve overrides on top of the defaults.
func (sc *Scenario) Params() (curve.Params, error) {
	return sc.ApplyOverrides(curve.DefaultParams())
}

// ApplyOverrides layers the scenario's curve overrides on top of a base
// parameter set, typically one loaded from a launch config file.
func (sc *Scenario) ApplyOverrides(params curve.Params) (curve.Params, error) {
	if sc.Curve.CurveType != "" {
		ct := curve.CurveType(sc.Curve.CurveType)
		switch ct {
		case curve.CurveLinear, curve.CurveExponential, curve.CurveLogarithmic:
			params.CurveType = ct
		default:
			return curve.Params{}, fmt.Errorf("unsupported curve type: %q", sc.Curve.CurveType)
		}
	}
	if sc.Curve.GraduationThresholdSol > 0 {
		params.GraduationThreshold = curve.LamportsFromSol(sc.Curve.GraduationThresholdSol)
	}
	if sc.Curve.CooldownSeconds > 0 {
		params.Protection.CooldownSeconds = sc.Curve.CooldownSeconds
	}
	if sc.Curve.ProtectionPeriodSec > 0 {
		params.Protection.ProtectionPeriodSeconds = sc.Curve.ProtectionPeriodSec
	}
	if sc.Curve.MaxBuyDuringProtection > 0 {
		params.Protection.MaxBuyDuringProtection = curve.LamportsFromSol(sc.Curve.MaxBuyDuringProtection)
	}

	return params, nil
}
