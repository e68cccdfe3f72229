// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/degenlabs/launchpad/internal/curve"
)

// Config is the file representation of a launch configuration. Value fields
// use SOL where the file format does; ToParams converts everything to
// lamports at the boundary.
type Config struct {
	CurveType              string  `mapstructure:"curve_type"`
	InitialPriceLamports   uint64  `mapstructure:"initial_price_lamports"`
	PriceIncrementLamports uint64  `mapstructure:"price_increment_lamports"`
	GrowthRateBps          uint64  `mapstructure:"growth_rate_bps"`
	MaxSupply              uint64  `mapstructure:"max_supply"`
	GraduationThresholdSol float64 `mapstructure:"graduation_threshold_sol"`

	CreationFeeSol    float64 `mapstructure:"creation_fee_sol"`
	TransactionFeeBps uint64  `mapstructure:"transaction_fee_bps"`
	CreatorFeeBps     uint64  `mapstructure:"creator_fee_bps"`
	PlatformFeeBps    uint64  `mapstructure:"platform_fee_bps"`

	CooldownSeconds           int64        `mapstructure:"cooldown_seconds"`
	ProtectionPeriodSeconds   int64        `mapstructure:"protection_period_seconds"`
	MaxBuyDuringProtectionSol float64      `mapstructure:"max_buy_during_protection_sol"`
	ImpactTiers               []ImpactTier `mapstructure:"impact_tiers"`

	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
}

// ImpactTier is the file form of a progressive slippage tier. A zero
// max_sol_value marks the unbounded last tier.
type ImpactTier struct {
	MaxSolValue  float64 `mapstructure:"max_sol_value"`
	MaxImpactBps uint64  `mapstructure:"max_impact_bps"`
}

const (
	DefaultCurveType              = string(curve.CurveExponential)
	DefaultInitialPriceLamports   = 1000
	DefaultPriceIncrementLamports = 100
	DefaultGrowthRateBps          = 100
	DefaultMaxSupply              = 1_000_000
	DefaultGraduationThresholdSol = 69_000.0
	DefaultCreationFeeSol         = 0.02
	DefaultTransactionFeeBps      = 100
	DefaultCreatorFeeBps          = 50
	DefaultPlatformFeeBps         = 50
	DefaultCooldownSeconds        = 30
	DefaultProtectionPeriodSec    = 3600
	DefaultMaxBuyProtectionSol    = 1.0
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"curve_type":                    DefaultCurveType,
		"initial_price_lamports":        DefaultInitialPriceLamports,
		"price_increment_lamports":      DefaultPriceIncrementLamports,
		"growth_rate_bps":               DefaultGrowthRateBps,
		"max_supply":                    DefaultMaxSupply,
		"graduation_threshold_sol":      DefaultGraduationThresholdSol,
		"creation_fee_sol":              DefaultCreationFeeSol,
		"transaction_fee_bps":           DefaultTransactionFeeBps,
		"creator_fee_bps":               DefaultCreatorFeeBps,
		"platform_fee_bps":              DefaultPlatformFeeBps,
		"cooldown_seconds":              DefaultCooldownSeconds,
		"protection_period_seconds":     DefaultProtectionPeriodSec,
		"max_buy_during_protection_sol": DefaultMaxBuyProtectionSol,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	switch curve.CurveType(cfg.CurveType) {
	case curve.CurveLinear, curve.CurveExponential, curve.CurveLogarithmic:
	default:
		return errors.New("invalid curve_type")
	}
	if cfg.InitialPriceLamports == 0 {
		return errors.New("invalid initial_price_lamports")
	}
	if cfg.MaxSupply == 0 {
		return errors.New("invalid max_supply")
	}
	if cfg.GraduationThresholdSol <= 0 {
		return errors.New("invalid graduation_threshold_sol")
	}
	if cfg.CreationFeeSol < 0 || cfg.MaxBuyDuringProtectionSol < 0 {
		return errors.New("SOL amounts must not be negative")
	}
	if cfg.CooldownSeconds < 0 || cfg.ProtectionPeriodSeconds < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// ToParams converts the file form into engine parameters. The engine's own
// Validate still runs on the result, so fee and tier consistency is enforced
// in one place.
func (cfg *Config) ToParams() curve.Params {
	params := curve.Params{
		CurveType:           curve.CurveType(cfg.CurveType),
		InitialPrice:        cfg.InitialPriceLamports,
		PriceIncrement:      cfg.PriceIncrementLamports,
		GrowthRateBps:       cfg.GrowthRateBps,
		MaxSupply:           cfg.MaxSupply,
		GraduationThreshold: curve.LamportsFromSol(cfg.GraduationThresholdSol),
		CreationFee:         curve.LamportsFromSol(cfg.CreationFeeSol),
		TransactionFeeBps:   cfg.TransactionFeeBps,
		CreatorFeeBps:       cfg.CreatorFeeBps,
		PlatformFeeBps:      cfg.PlatformFeeBps,
		Protection: curve.ProtectionParams{
			CooldownSeconds:         cfg.CooldownSeconds,
			ProtectionPeriodSeconds: cfg.ProtectionPeriodSeconds,
			MaxBuyDuringProtection:  curve.LamportsFromSol(cfg.MaxBuyDuringProtectionSol),
		},
	}

	if len(cfg.ImpactTiers) == 0 {
		params.Protection.ImpactTiers = curve.DefaultProtection().ImpactTiers
		return params
	}
	for _, tier := range cfg.ImpactTiers {
		params.Protection.ImpactTiers = append(params.Protection.ImpactTiers, curve.ImpactTier{
			ValueThreshold: curve.LamportsFromSol(tier.MaxSolValue),
			MaxImpactBps:   tier.MaxImpactBps,
		})
	}
	return params
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if logFile := v.GetString("LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}
	if v.IsSet("DEBUG_LOGGING") {
		cfg.DebugLogging = v.GetBool("DEBUG_LOGGING")
	}
}
