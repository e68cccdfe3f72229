// internal/curve/params.go
package curve

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// CurveType selects the pricing formula used by a bonding curve.
type CurveType string

const (
	// CurveLinear grows the price by a fixed increment per 1000 tokens minted.
	CurveLinear CurveType = "linear"
	// CurveExponential compounds the price by GrowthRateBps per 1000 tokens minted.
	CurveExponential CurveType = "exponential"
	// CurveLogarithmic grows fast early and tapers off as supply accumulates.
	CurveLogarithmic CurveType = "logarithmic"
)

const (
	// bpsDenominator is the basis-point scale: 10000 bps = 100%.
	bpsDenominator = 10_000
	// supplyScale quantizes supply into discrete price levels. Price only
	// moves when supply crosses a multiple of this factor, which bounds the
	// computational growth of the exponential curve. Compatibility-critical.
	supplyScale = 1000
	// maxImpactBps caps reported price impact at the u16 maximum.
	maxImpactBps = 65_535
)

// ImpactTier binds a maximum allowed price impact to an upper bound on trade
// value. Tiers are evaluated ascending; the first tier whose threshold the
// trade value does not exceed applies.
type ImpactTier struct {
	// ValueThreshold is the inclusive upper bound on trade value, in lamports.
	ValueThreshold uint64
	// MaxImpactBps is the allowed price impact for trades in this tier.
	MaxImpactBps uint64
}

// ProtectionParams holds the anti-manipulation settings applied by the trade
// gatekeeper. The constants differ per launch, so they travel with the curve
// parameters instead of being hard-coded.
type ProtectionParams struct {
	// CooldownSeconds is the minimum spacing between trades from one wallet.
	CooldownSeconds int64
	// ProtectionPeriodSeconds is the launch window during which buys are capped.
	ProtectionPeriodSeconds int64
	// MaxBuyDuringProtection caps a single buy's value inside the launch window.
	MaxBuyDuringProtection uint64
	// ImpactTiers is the progressive slippage schedule, ordered by threshold.
	ImpactTiers []ImpactTier
}

// Params are the immutable parameters fixed when a curve is created.
type Params struct {
	CurveType      CurveType
	InitialPrice   uint64 // lamports per whole token, > 0
	PriceIncrement uint64 // linear curve only
	GrowthRateBps  uint64 // exponential curve only, 100 = 1%

	MaxSupply           uint64
	GraduationThreshold uint64 // market cap in lamports that triggers graduation

	CreationFee       uint64 // flat fee collected once at curve creation
	TransactionFeeBps uint64
	CreatorFeeBps     uint64
	PlatformFeeBps    uint64

	Protection ProtectionParams
}

// DefaultParams returns the pump.fun-style launch configuration used across
// the simulator scenarios: 1% exponential growth, 1% transaction fee split
// evenly between creator and platform, and the standard four-layer protection.
func DefaultParams() Params {
	return Params{
		CurveType:           CurveExponential,
		InitialPrice:        1000, // 0.000001 SOL per token
		PriceIncrement:      100,
		GrowthRateBps:       100, // 1%
		MaxSupply:           1_000_000,
		GraduationThreshold: 69_000 * solana.LAMPORTS_PER_SOL,
		CreationFee:         20_000_000, // 0.02 SOL
		TransactionFeeBps:   100,        // 1%
		CreatorFeeBps:       50,         // 0.5%
		PlatformFeeBps:      50,         // 0.5%
		Protection:          DefaultProtection(),
	}
}

// DefaultProtection returns the launch-protection settings from the reference
// deployment: 30s cooldown, 1h protection window with a 1 SOL buy cap, and
// progressive impact limits from 1% for small trades up to 8% for whales.
func DefaultProtection() ProtectionParams {
	return ProtectionParams{
		CooldownSeconds:         30,
		ProtectionPeriodSeconds: 3600,
		MaxBuyDuringProtection:  1 * solana.LAMPORTS_PER_SOL,
		ImpactTiers: []ImpactTier{
			{ValueThreshold: solana.LAMPORTS_PER_SOL / 10, MaxImpactBps: 100},
			{ValueThreshold: 1 * solana.LAMPORTS_PER_SOL, MaxImpactBps: 300},
			{ValueThreshold: 10 * solana.LAMPORTS_PER_SOL, MaxImpactBps: 500},
			{ValueThreshold: 0, MaxImpactBps: 800}, // unbounded whale tier
		},
	}
}

// LamportsFromSol converts a SOL amount from a config or scenario file into
// lamports, truncating sub-lamport dust. Decimal arithmetic keeps the
// conversion exact for the fractional amounts the files use.
func LamportsFromSol(sol float64) uint64 {
	lamports := decimal.NewFromFloat(sol).
		Mul(decimal.NewFromUint64(solana.LAMPORTS_PER_SOL)).
		Floor()
	return lamports.BigInt().Uint64()
}

// Validate checks the parameter set for internal consistency.
func (p Params) Validate() error {
	switch p.CurveType {
	case CurveLinear, CurveExponential, CurveLogarithmic:
	default:
		return fmt.Errorf("unsupported curve type: %q", p.CurveType)
	}
	if p.InitialPrice == 0 {
		return errors.New("initial price must be positive")
	}
	if p.MaxSupply == 0 {
		return errors.New("max supply must be positive")
	}
	if p.GraduationThreshold == 0 {
		return errors.New("graduation threshold must be positive")
	}
	if p.TransactionFeeBps >= bpsDenominator {
		return errors.New("transaction fee must be below 100%")
	}
	if p.CreatorFeeBps+p.PlatformFeeBps > p.TransactionFeeBps {
		return errors.New("creator and platform fees exceed transaction fee")
	}
	if err := p.Protection.validate(); err != nil {
		return err
	}
	return nil
}

func (pp ProtectionParams) validate() error {
	if pp.CooldownSeconds < 0 || pp.ProtectionPeriodSeconds < 0 {
		return errors.New("protection durations must not be negative")
	}
	var prev uint64
	for i, tier := range pp.ImpactTiers {
		last := i == len(pp.ImpactTiers)-1
		if tier.ValueThreshold == 0 && !last {
			return errors.New("only the last impact tier may be unbounded")
		}
		// Every bounded tier must ascend; only the zero sentinel is exempt.
		if tier.ValueThreshold != 0 && i > 0 && tier.ValueThreshold <= prev {
			return errors.New("impact tiers must be ordered by ascending threshold")
		}
		if tier.MaxImpactBps == 0 {
			return errors.New("impact tier limit must be positive")
		}
		prev = tier.ValueThreshold
	}
	return nil
}
