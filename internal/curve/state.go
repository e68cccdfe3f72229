// internal/curve/state.go
package curve

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// State is the mutable ledger of one bonding curve. It is only ever written
// by accepted trades under the engine's lock; CurrentPrice is always a pure
// function of TotalSupply and never drifts independently.
type State struct {
	CurrentPrice    uint64
	TotalSupply     uint64
	TreasuryBalance uint64
	TotalVolume     uint64
	Graduated       bool
}

// StateView is a read-only snapshot of the curve, including the derived
// market-cap and graduation-progress figures that callers display.
type StateView struct {
	CurrentPrice    uint64
	TotalSupply     uint64
	TreasuryBalance uint64
	TotalVolume     uint64
	// MarketCap is TotalSupply * CurrentPrice, saturating at MaxUint64.
	MarketCap uint64
	// GraduationProgressPct runs from 0 to 100 with two decimal places.
	GraduationProgressPct decimal.Decimal
	Graduated             bool
}

// Direction distinguishes the two trade operations.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Trade records one accepted or rejected trade attempt.
type Trade struct {
	ID        string    `json:"id"`
	Wallet    string    `json:"wallet"`
	Direction Direction `json:"direction"`
	Timestamp int64     `json:"timestamp"`

	// InputValue is the lamports spent on a buy; InputTokens the tokens
	// offered on a sell. Only one is set per direction.
	InputValue  uint64 `json:"input_value"`
	InputTokens uint64 `json:"input_tokens"`

	// TokensOut is the tokens minted on a buy; ValueOut the net lamports
	// returned on a sell.
	TokensOut uint64 `json:"tokens_out"`
	ValueOut  uint64 `json:"value_out"`

	Fee         uint64 `json:"fee"`
	CreatorFee  uint64 `json:"creator_fee"`
	PlatformFee uint64 `json:"platform_fee"`

	PriceBefore    uint64 `json:"price_before"`
	PriceAfter     uint64 `json:"price_after"`
	SupplyAfter    uint64 `json:"supply_after"`
	PriceImpactBps uint64 `json:"price_impact_bps"`

	Accepted bool            `json:"accepted"`
	Reason   RejectionReason `json:"reason,omitempty"`
}

// Quote is a read-only trade preview. It is produced by the same math as the
// mutating path and matches the resulting Trade exactly when executed
// immediately against an unchanged state.
type Quote struct {
	Direction      Direction
	InputAmount    uint64
	ExpectedOutput uint64
	Fee            uint64
	PriceImpactBps uint64
	PriceAfter     uint64
}

// userRecord tracks per-wallet trading activity. Records are created lazily
// on a wallet's first accepted trade and never deleted.
type userRecord struct {
	lastTransactionTime int64
	totalBought         uint64
	transactionCount    uint64
}

func graduationProgress(mc *big.Int, threshold uint64) decimal.Decimal {
	if threshold == 0 {
		return decimal.Zero
	}
	pct := decimal.NewFromBigInt(mc, 0).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromUint64(threshold), 2)
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
