// internal/curve/gatekeeper.go
package curve

import (
	"go.uber.org/zap"
)

// gatekeeper enforces the per-wallet and per-trade protection rules: rate
// limiting, the launch-protection buy cap, and the progressive price-impact
// schedule. It owns the wallet records so the engine stays instantiable per
// token with no shared globals.
type gatekeeper struct {
	params ProtectionParams
	users  map[string]*userRecord
	logger *zap.Logger
}

func newGatekeeper(params ProtectionParams, logger *zap.Logger) *gatekeeper {
	return &gatekeeper{
		params: params,
		users:  make(map[string]*userRecord),
		logger: logger,
	}
}

// checkCooldown rejects a wallet trading again before CooldownSeconds have
// elapsed since its last accepted trade. Wallets with no history pass.
func (g *gatekeeper) checkCooldown(wallet string, now int64) *TradeError {
	rec, ok := g.users[wallet]
	if !ok || g.params.CooldownSeconds == 0 {
		return nil
	}
	elapsed := now - rec.lastTransactionTime
	if elapsed < g.params.CooldownSeconds {
		remaining := g.params.CooldownSeconds - elapsed
		g.logger.Debug("Trade rejected by cooldown",
			zap.String("wallet", wallet),
			zap.Int64("elapsed_seconds", elapsed),
			zap.Int64("remaining_seconds", remaining))
		return errCooldown(remaining)
	}
	return nil
}

// checkProtectionWindow caps buy sizes during the launch-protection period.
// Sells are exempt.
func (g *gatekeeper) checkProtectionWindow(value uint64, createdAt, now int64) *TradeError {
	if g.params.ProtectionPeriodSeconds == 0 || g.params.MaxBuyDuringProtection == 0 {
		return nil
	}
	age := now - createdAt
	if age >= g.params.ProtectionPeriodSeconds {
		return nil
	}
	if value > g.params.MaxBuyDuringProtection {
		g.logger.Debug("Trade rejected by launch protection",
			zap.Uint64("value", value),
			zap.Uint64("max_buy", g.params.MaxBuyDuringProtection),
			zap.Int64("curve_age_seconds", age))
		return errProtectionLimit(g.params.MaxBuyDuringProtection)
	}
	return nil
}

// impactLimitFor resolves the progressive slippage schedule for a trade
// value: the first tier whose threshold the value does not exceed applies;
// past every bounded tier, the last tier's limit holds. The tiered schedule
// keeps small trades tight without blocking legitimate whale volume outright.
func (g *gatekeeper) impactLimitFor(value uint64) uint64 {
	tiers := g.params.ImpactTiers
	if len(tiers) == 0 {
		return maxImpactBps
	}
	for _, tier := range tiers {
		if tier.ValueThreshold != 0 && value <= tier.ValueThreshold {
			return tier.MaxImpactBps
		}
	}
	return tiers[len(tiers)-1].MaxImpactBps
}

// checkImpact rejects trades whose computed price impact exceeds the tier
// limit for their size.
func (g *gatekeeper) checkImpact(value, impactBps uint64) *TradeError {
	limit := g.impactLimitFor(value)
	if impactBps > limit {
		g.logger.Debug("Trade rejected by progressive slippage limit",
			zap.Uint64("value", value),
			zap.Uint64("impact_bps", impactBps),
			zap.Uint64("limit_bps", limit))
		return errSlippage(impactBps, limit)
	}
	return nil
}

// record updates a wallet's history after an accepted trade. Buy value
// accumulates into totalBought; cooldown tracking applies to both directions.
func (g *gatekeeper) record(wallet string, direction Direction, value uint64, now int64) {
	rec, ok := g.users[wallet]
	if !ok {
		rec = &userRecord{}
		g.users[wallet] = rec
	}
	rec.lastTransactionTime = now
	rec.transactionCount++
	if direction == DirectionBuy {
		rec.totalBought += value
	}
}

// walletStats exposes a wallet's record for reporting. The zero record is
// returned for wallets that have never traded.
func (g *gatekeeper) walletStats(wallet string) (lastTransactionTime int64, totalBought, transactionCount uint64) {
	rec, ok := g.users[wallet]
	if !ok {
		return 0, 0, 0
	}
	return rec.lastTransactionTime, rec.totalBought, rec.transactionCount
}
