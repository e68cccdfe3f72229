// internal/curve/errors.go
package curve

import (
	"errors"
	"fmt"
)

// RejectionReason classifies why the gatekeeper refused a trade. Every value
// maps onto one rejection path; rejections never leave partial state behind.
type RejectionReason string

const (
	ReasonInvalidAmount          RejectionReason = "invalid_amount"
	ReasonAlreadyGraduated       RejectionReason = "already_graduated"
	ReasonTransactionCooldown    RejectionReason = "transaction_cooldown"
	ReasonExceedsProtectionLimit RejectionReason = "exceeds_protection_limit"
	ReasonExceedsMaxSupply       RejectionReason = "exceeds_max_supply"
	ReasonInsufficientTreasury   RejectionReason = "insufficient_treasury_funds"
	ReasonSlippageExceeded       RejectionReason = "slippage_exceeded"
	ReasonInvalidState           RejectionReason = "invalid_state"
)

// TradeError is returned for every rejected trade. The detail fields are
// populated per reason: CooldownRemaining for cooldown rejections,
// RemainingMintable for supply rejections, ImpactBps/ImpactLimitBps for
// slippage rejections.
type TradeError struct {
	Reason RejectionReason

	CooldownRemaining int64
	RemainingMintable uint64
	ImpactBps         uint64
	ImpactLimitBps    uint64

	Detail string
}

func (e *TradeError) Error() string {
	switch e.Reason {
	case ReasonTransactionCooldown:
		return fmt.Sprintf("transaction cooldown: wait %d more seconds", e.CooldownRemaining)
	case ReasonExceedsMaxSupply:
		return fmt.Sprintf("purchase would exceed max supply: %d tokens remaining", e.RemainingMintable)
	case ReasonSlippageExceeded:
		return fmt.Sprintf("price impact %d bps exceeds limit of %d bps", e.ImpactBps, e.ImpactLimitBps)
	case ReasonAlreadyGraduated:
		return "curve has graduated: trade on the external pool instead"
	default:
		if e.Detail != "" {
			return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
		}
		return string(e.Reason)
	}
}

// IsRejection extracts the rejection reason from an error chain. The second
// return is false for errors that are not trade rejections.
func IsRejection(err error) (RejectionReason, bool) {
	var te *TradeError
	if errors.As(err, &te) {
		return te.Reason, true
	}
	return "", false
}

func errInvalidAmount(detail string) *TradeError {
	return &TradeError{Reason: ReasonInvalidAmount, Detail: detail}
}

func errAlreadyGraduated() *TradeError {
	return &TradeError{Reason: ReasonAlreadyGraduated}
}

func errCooldown(remaining int64) *TradeError {
	return &TradeError{Reason: ReasonTransactionCooldown, CooldownRemaining: remaining}
}

func errProtectionLimit(maxBuy uint64) *TradeError {
	return &TradeError{
		Reason: ReasonExceedsProtectionLimit,
		Detail: fmt.Sprintf("buys are capped at %d lamports during the launch window", maxBuy),
	}
}

func errExceedsMaxSupply(remaining uint64) *TradeError {
	return &TradeError{Reason: ReasonExceedsMaxSupply, RemainingMintable: remaining}
}

func errInsufficientTreasury(requested, available uint64) *TradeError {
	return &TradeError{
		Reason: ReasonInsufficientTreasury,
		Detail: fmt.Sprintf("payout of %d lamports exceeds treasury balance of %d", requested, available),
	}
}

func errSlippage(impact, limit uint64) *TradeError {
	return &TradeError{Reason: ReasonSlippageExceeded, ImpactBps: impact, ImpactLimitBps: limit}
}

func errInvalidState(detail string) *TradeError {
	return &TradeError{Reason: ReasonInvalidState, Detail: detail}
}
