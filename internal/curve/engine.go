// internal/curve/engine.go
package curve

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine owns one bonding curve: its immutable parameters, mutable state,
// per-wallet gatekeeper records and trade history. Every mutation runs the
// full validate-then-commit sequence under a single lock, so a curve has
// exactly one writer at a time; distinct engines are fully independent.
//
// Timestamps are supplied by the caller on every operation. The engine never
// reads a wall clock, which keeps identical input sequences producing
// identical results.
type Engine struct {
	mu sync.Mutex

	params    Params
	createdAt int64

	state      State
	gate       *gatekeeper
	fees       FeeTotals
	history    []Trade
	graduation *GraduationEvent

	logger *zap.Logger
}

// New creates a curve from validated parameters. The creation fee, if
// configured, is collected immediately into the fee ledger.
func New(params Params, createdAt int64, logger *zap.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid curve parameters: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("curve_engine")

	e := &Engine{
		params:    params,
		createdAt: createdAt,
		state: State{
			CurrentPrice: params.InitialPrice,
		},
		gate:   newGatekeeper(params.Protection, logger),
		logger: logger,
	}
	e.fees.Creation = params.CreationFee

	logger.Info("Bonding curve created",
		zap.String("curve_type", string(params.CurveType)),
		zap.Uint64("initial_price", params.InitialPrice),
		zap.Uint64("max_supply", params.MaxSupply),
		zap.Uint64("graduation_threshold", params.GraduationThreshold))

	return e, nil
}

// Params returns the curve's immutable parameters.
func (e *Engine) Params() Params {
	return e.params
}

// CreatedAt returns the creation timestamp supplied to New.
func (e *Engine) CreatedAt() int64 {
	return e.createdAt
}

// buyPlan carries the full arithmetic of a prospective buy. Plans are pure
// computations against the current state; nothing is committed until every
// check has passed.
type buyPlan struct {
	gross     uint64
	fee       FeeBreakdown
	net       uint64
	tokens    uint64
	newSupply uint64
	newPrice  uint64
	impactBps uint64
}

func (e *Engine) planBuy(value uint64) (buyPlan, *TradeError) {
	if value == 0 {
		return buyPlan{}, errInvalidAmount("buy value must be positive")
	}
	if e.state.CurrentPrice == 0 {
		// Cannot happen while the supply invariants hold; a zero price means
		// the ledger itself is corrupt.
		return buyPlan{}, errInvalidState("current price is zero")
	}

	net, fee := ApplyFee(value, e.params.TransactionFeeBps)
	tokens := TokensForValue(net, e.state.CurrentPrice)
	// Compare against the remaining headroom instead of summing first: the
	// sum itself can wrap for near-MaxUint64 supplies.
	remaining := e.params.MaxSupply - e.state.TotalSupply
	if tokens > remaining {
		return buyPlan{}, errExceedsMaxSupply(remaining)
	}
	newSupply := e.state.TotalSupply + tokens
	newPrice := PriceForSupply(e.params, newSupply)

	return buyPlan{
		gross:     value,
		fee:       SplitFee(fee, e.params.CreatorFeeBps, e.params.TransactionFeeBps),
		net:       net,
		tokens:    tokens,
		newSupply: newSupply,
		newPrice:  newPrice,
		impactBps: PriceImpactBps(e.state.CurrentPrice, newPrice),
	}, nil
}

// sellPlan mirrors buyPlan for the sell direction.
type sellPlan struct {
	tokens    uint64
	gross     uint64
	fee       FeeBreakdown
	net       uint64
	newSupply uint64
	newPrice  uint64
	impactBps uint64
}

func (e *Engine) planSell(tokens uint64) (sellPlan, *TradeError) {
	if tokens == 0 {
		return sellPlan{}, errInvalidAmount("token amount must be positive")
	}
	if tokens > e.state.TotalSupply {
		return sellPlan{}, errInvalidAmount("token amount exceeds circulating supply")
	}
	if e.state.CurrentPrice == 0 {
		return sellPlan{}, errInvalidState("current price is zero")
	}

	newSupply := e.state.TotalSupply - tokens
	newPrice := PriceForSupply(e.params, newSupply)
	gross := ValueForTokens(tokens, e.state.CurrentPrice, newPrice)
	net, fee := ApplyFee(gross, e.params.TransactionFeeBps)

	return sellPlan{
		tokens:    tokens,
		gross:     gross,
		fee:       SplitFee(fee, e.params.CreatorFeeBps, e.params.TransactionFeeBps),
		net:       net,
		newSupply: newSupply,
		newPrice:  newPrice,
		impactBps: PriceImpactBps(e.state.CurrentPrice, newPrice),
	}, nil
}

// Buy spends inputValue lamports on newly minted tokens. The gatekeeper
// checks run in a fixed order and nothing mutates on any rejection; the
// graduation check runs strictly after the trade commits.
func (e *Engine) Buy(inputValue uint64, wallet string, now int64) (*Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reject := func(te *TradeError) (*Trade, error) {
		return e.recordRejection(wallet, DirectionBuy, inputValue, 0, now, te), te
	}

	if e.state.Graduated {
		return reject(errAlreadyGraduated())
	}
	if te := e.gate.checkCooldown(wallet, now); te != nil {
		return reject(te)
	}
	if te := e.gate.checkProtectionWindow(inputValue, e.createdAt, now); te != nil {
		return reject(te)
	}

	plan, te := e.planBuy(inputValue)
	if te != nil {
		if te.Reason == ReasonInvalidState {
			e.logger.Error("Invariant violation on buy", zap.String("detail", te.Detail))
		}
		return reject(te)
	}
	if te := e.gate.checkImpact(inputValue, plan.impactBps); te != nil {
		return reject(te)
	}

	priceBefore := e.state.CurrentPrice

	// Commit. From this point the trade is accepted and fully applied.
	e.state.TotalSupply = plan.newSupply
	e.state.TreasuryBalance += plan.net
	e.state.TotalVolume += plan.gross
	e.state.CurrentPrice = plan.newPrice
	e.fees.add(plan.fee)
	e.gate.record(wallet, DirectionBuy, inputValue, now)

	trade := Trade{
		ID:             uuid.NewString(),
		Wallet:         wallet,
		Direction:      DirectionBuy,
		Timestamp:      now,
		InputValue:     inputValue,
		TokensOut:      plan.tokens,
		Fee:            plan.fee.Total,
		CreatorFee:     plan.fee.Creator,
		PlatformFee:    plan.fee.Platform,
		PriceBefore:    priceBefore,
		PriceAfter:     plan.newPrice,
		SupplyAfter:    plan.newSupply,
		PriceImpactBps: plan.impactBps,
		Accepted:       true,
	}
	e.history = append(e.history, trade)

	e.logger.Debug("Buy executed",
		zap.String("wallet", wallet),
		zap.Uint64("value", inputValue),
		zap.Uint64("fee", plan.fee.Total),
		zap.Uint64("tokens_minted", plan.tokens),
		zap.Uint64("price_before", priceBefore),
		zap.Uint64("price_after", plan.newPrice),
		zap.Uint64("impact_bps", plan.impactBps))

	// Supply only grows on buys, so graduation can only trigger here.
	e.checkGraduation(now)

	return &trade, nil
}

// Sell burns tokenAmount tokens and pays out of the treasury at the average
// of the pre- and post-trade price.
func (e *Engine) Sell(tokenAmount uint64, wallet string, now int64) (*Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reject := func(te *TradeError) (*Trade, error) {
		return e.recordRejection(wallet, DirectionSell, 0, tokenAmount, now, te), te
	}

	if e.state.Graduated {
		return reject(errAlreadyGraduated())
	}
	if te := e.gate.checkCooldown(wallet, now); te != nil {
		return reject(te)
	}

	plan, te := e.planSell(tokenAmount)
	if te != nil {
		if te.Reason == ReasonInvalidState {
			e.logger.Error("Invariant violation on sell", zap.String("detail", te.Detail))
		}
		return reject(te)
	}
	if plan.net > e.state.TreasuryBalance {
		return reject(errInsufficientTreasury(plan.net, e.state.TreasuryBalance))
	}
	if te := e.gate.checkImpact(plan.gross, plan.impactBps); te != nil {
		return reject(te)
	}

	priceBefore := e.state.CurrentPrice

	e.state.TotalSupply = plan.newSupply
	e.state.TreasuryBalance -= plan.net
	e.state.TotalVolume += plan.gross
	e.state.CurrentPrice = plan.newPrice
	e.fees.add(plan.fee)
	e.gate.record(wallet, DirectionSell, plan.gross, now)

	trade := Trade{
		ID:             uuid.NewString(),
		Wallet:         wallet,
		Direction:      DirectionSell,
		Timestamp:      now,
		InputTokens:    tokenAmount,
		ValueOut:       plan.net,
		Fee:            plan.fee.Total,
		CreatorFee:     plan.fee.Creator,
		PlatformFee:    plan.fee.Platform,
		PriceBefore:    priceBefore,
		PriceAfter:     plan.newPrice,
		SupplyAfter:    plan.newSupply,
		PriceImpactBps: plan.impactBps,
		Accepted:       true,
	}
	e.history = append(e.history, trade)

	e.logger.Debug("Sell executed",
		zap.String("wallet", wallet),
		zap.Uint64("tokens", tokenAmount),
		zap.Uint64("gross_value", plan.gross),
		zap.Uint64("net_payout", plan.net),
		zap.Uint64("fee", plan.fee.Total),
		zap.Uint64("price_before", priceBefore),
		zap.Uint64("price_after", plan.newPrice))

	return &trade, nil
}

// GetQuote previews a trade without mutating anything. The numbers come from
// the same plan computation as Buy and Sell, so an immediate execution
// against unchanged state returns identical values. Wallet-specific checks
// (cooldown, protection window) are not part of a quote.
func (e *Engine) GetQuote(direction Direction, amount uint64) (*Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Graduated {
		return nil, errAlreadyGraduated()
	}

	switch direction {
	case DirectionBuy:
		plan, te := e.planBuy(amount)
		if te != nil {
			return nil, te
		}
		return &Quote{
			Direction:      DirectionBuy,
			InputAmount:    amount,
			ExpectedOutput: plan.tokens,
			Fee:            plan.fee.Total,
			PriceImpactBps: plan.impactBps,
			PriceAfter:     plan.newPrice,
		}, nil
	case DirectionSell:
		plan, te := e.planSell(amount)
		if te != nil {
			return nil, te
		}
		return &Quote{
			Direction:      DirectionSell,
			InputAmount:    amount,
			ExpectedOutput: plan.net,
			Fee:            plan.fee.Total,
			PriceImpactBps: plan.impactBps,
			PriceAfter:     plan.newPrice,
		}, nil
	default:
		return nil, errInvalidAmount(fmt.Sprintf("unknown trade direction: %q", direction))
	}
}

// State returns a consistent snapshot of the curve.
func (e *Engine) State() StateView {
	e.mu.Lock()
	defer e.mu.Unlock()

	mc := marketCap(e.state.TotalSupply, e.state.CurrentPrice)
	return StateView{
		CurrentPrice:          e.state.CurrentPrice,
		TotalSupply:           e.state.TotalSupply,
		TreasuryBalance:       e.state.TreasuryBalance,
		TotalVolume:           e.state.TotalVolume,
		MarketCap:             saturateUint64(mc),
		GraduationProgressPct: graduationProgress(mc, e.params.GraduationThreshold),
		Graduated:             e.state.Graduated,
	}
}

// FeeTotals returns the cumulative fee ledger.
func (e *Engine) FeeTotals() FeeTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fees
}

// GraduationEvent returns the migration record, if the curve has graduated.
func (e *Engine) GraduationEvent() (GraduationEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graduation == nil {
		return GraduationEvent{}, false
	}
	return *e.graduation, true
}

// History returns a copy of every trade attempt, accepted and rejected, in
// order.
func (e *Engine) History() []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Trade, len(e.history))
	copy(out, e.history)
	return out
}

// WalletStats reports the tracked record for one wallet.
func (e *Engine) WalletStats(wallet string) (lastTransactionTime int64, totalBought, transactionCount uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.walletStats(wallet)
}

// checkGraduation fires the one-way graduation transition when market cap
// reaches the threshold. Idempotent: once Graduated is set the threshold is
// never evaluated again. Caller holds the lock.
func (e *Engine) checkGraduation(now int64) {
	if e.state.Graduated {
		return
	}
	mc := marketCap(e.state.TotalSupply, e.state.CurrentPrice)
	if mc.Cmp(new(big.Int).SetUint64(e.params.GraduationThreshold)) < 0 {
		return
	}

	event := buildGraduationEvent(e.state, mc, now)
	e.graduation = &event
	e.state.Graduated = true

	e.logger.Info("Curve graduated",
		zap.Uint64("market_cap", event.MarketCapAtGraduation),
		zap.Uint64("treasury", event.TreasuryAtGraduation),
		zap.Uint64("liquidity_value", event.LiquidityValue),
		zap.Uint64("platform_share", event.PlatformShareValue),
		zap.Uint64("creator_bonus", event.CreatorBonusValue),
		zap.Uint64("liquidity_tokens", event.LiquidityTokenAmount),
		zap.Uint64("pool_initial_price", event.PoolInitialPrice),
		zap.Uint64("lp_token_estimate", event.LPTokenEstimate))
}

// recordRejection appends a non-mutating history entry for a refused trade.
// Curve state, fee totals and wallet records are untouched on every
// rejection path.
func (e *Engine) recordRejection(wallet string, direction Direction, value, tokens uint64, now int64, te *TradeError) *Trade {
	trade := Trade{
		ID:          uuid.NewString(),
		Wallet:      wallet,
		Direction:   direction,
		Timestamp:   now,
		InputValue:  value,
		InputTokens: tokens,
		PriceBefore: e.state.CurrentPrice,
		PriceAfter:  e.state.CurrentPrice,
		SupplyAfter: e.state.TotalSupply,
		Accepted:    false,
		Reason:      te.Reason,
	}
	e.history = append(e.history, trade)
	return &trade
}
