// internal/curve/graduation.go
package curve

import (
	"math/big"
)

// Treasury and supply allocation applied at graduation. The creator bonus is
// the remainder after the liquidity and platform cuts, so the three shares
// always sum to the treasury balance exactly.
const (
	liquiditySharePct = 85
	platformSharePct  = 10
	liquidityTokenPct = 20
)

// GraduationEvent is the one-time record of a curve crossing its market-cap
// threshold and migrating its treasury into an external liquidity pool.
type GraduationEvent struct {
	Timestamp int64

	// MarketCapAtGraduation saturates at MaxUint64.
	MarketCapAtGraduation uint64
	TreasuryAtGraduation  uint64

	LiquidityValue     uint64
	PlatformShareValue uint64
	CreatorBonusValue  uint64

	LiquidityTokenAmount uint64
	CirculatingTokens    uint64

	// PoolInitialPrice is lamports per token seeded into the new pool.
	PoolInitialPrice uint64
	// LPTokenEstimate follows constant-product LP accounting:
	// floor(sqrt(liquidityTokenAmount * liquidityValue)).
	LPTokenEstimate uint64
}

// buildGraduationEvent computes the allocation split for the given state.
// Callers are responsible for the threshold check and the one-way flag.
func buildGraduationEvent(s State, mc *big.Int, now int64) GraduationEvent {
	liquidity := mulQuo(s.TreasuryBalance, liquiditySharePct, 100)
	platform := mulQuo(s.TreasuryBalance, platformSharePct, 100)
	creator := s.TreasuryBalance - liquidity - platform

	liqTokens := mulQuo(s.TotalSupply, liquidityTokenPct, 100)

	var poolPrice uint64
	if liqTokens > 0 {
		poolPrice = liquidity / liqTokens
	}

	lp := new(big.Int).SetUint64(liqTokens)
	lp.Mul(lp, new(big.Int).SetUint64(liquidity))
	lp.Sqrt(lp)

	return GraduationEvent{
		Timestamp:             now,
		MarketCapAtGraduation: saturateUint64(mc),
		TreasuryAtGraduation:  s.TreasuryBalance,
		LiquidityValue:        liquidity,
		PlatformShareValue:    platform,
		CreatorBonusValue:     creator,
		LiquidityTokenAmount:  liqTokens,
		CirculatingTokens:     s.TotalSupply - liqTokens,
		PoolInitialPrice:      poolPrice,
		LPTokenEstimate:       saturateUint64(lp),
	}
}
