// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/degenlabs/launchpad/internal/curve"
)

var validConfigYAML = `
curve_type: linear
initial_price_lamports: 2000
price_increment_lamports: 500
max_supply: 500000
graduation_threshold_sol: 100.0
creation_fee_sol: 0.05
transaction_fee_bps: 200
creator_fee_bps: 100
platform_fee_bps: 100
cooldown_seconds: 10
protection_period_seconds: 600
max_buy_during_protection_sol: 0.5
impact_tiers:
  - max_sol_value: 0.5
    max_impact_bps: 200
  - max_sol_value: 0
    max_impact_bps: 900
debug_logging: true
log_file: launch.log
`

var invalidConfigYAML = `
curve_type: parabolic
initial_price_lamports: 0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "linear", cfg.CurveType)
	assert.Equal(t, uint64(2000), cfg.InitialPriceLamports)
	assert.Equal(t, uint64(500), cfg.PriceIncrementLamports)
	assert.Equal(t, uint64(500_000), cfg.MaxSupply)
	assert.Equal(t, 100.0, cfg.GraduationThresholdSol)
	assert.True(t, cfg.DebugLogging)
	assert.Equal(t, "launch.log", cfg.LogFile)
	require.Len(t, cfg.ImpactTiers, 2)
	assert.Equal(t, uint64(200), cfg.ImpactTiers[0].MaxImpactBps)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `curve_type: exponential`))
	require.NoError(t, err)

	assert.Equal(t, uint64(DefaultInitialPriceLamports), cfg.InitialPriceLamports)
	assert.Equal(t, uint64(DefaultMaxSupply), cfg.MaxSupply)
	assert.Equal(t, DefaultGraduationThresholdSol, cfg.GraduationThresholdSol)
	assert.Equal(t, int64(DefaultCooldownSeconds), cfg.CooldownSeconds)
	assert.Equal(t, DefaultMaxBuyProtectionSol, cfg.MaxBuyDuringProtectionSol)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, invalidConfigYAML))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestToParams(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	params := cfg.ToParams()
	require.NoError(t, params.Validate())

	assert.Equal(t, curve.CurveLinear, params.CurveType)
	assert.Equal(t, uint64(2000), params.InitialPrice)
	assert.Equal(t, uint64(100_000_000_000), params.GraduationThreshold, "100 SOL in lamports")
	assert.Equal(t, uint64(50_000_000), params.CreationFee, "0.05 SOL in lamports")
	assert.Equal(t, uint64(500_000_000), params.Protection.MaxBuyDuringProtection)
	require.Len(t, params.Protection.ImpactTiers, 2)
	assert.Equal(t, uint64(500_000_000), params.Protection.ImpactTiers[0].ValueThreshold)
	assert.Equal(t, uint64(0), params.Protection.ImpactTiers[1].ValueThreshold)
}

func TestToParamsDefaultTiers(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `curve_type: exponential`))
	require.NoError(t, err)

	params := cfg.ToParams()
	assert.Equal(t, curve.DefaultProtection().ImpactTiers, params.Protection.ImpactTiers)
}
