// internal/curve/fees.go
package curve

// FeeBreakdown is the outcome of applying the transaction fee to one trade.
type FeeBreakdown struct {
	Total    uint64
	Creator  uint64
	Platform uint64
}

// FeeTotals accumulates every fee the curve has collected since creation.
type FeeTotals struct {
	Creation    uint64
	Transaction uint64
	Creator     uint64
	Platform    uint64
}

// ApplyFee deducts the transaction fee from a gross trade value. The fee is
// always taken on the gross amount; tokens (buys) and payouts (sells) are
// computed on the remaining net.
func ApplyFee(grossValue, feeBps uint64) (netValue, feeValue uint64) {
	feeValue = mulQuo(grossValue, feeBps, bpsDenominator)
	return grossValue - feeValue, feeValue
}

// SplitFee divides an already-computed transaction fee between creator and
// platform. The creator share is a ratio of the fee, not of the gross value,
// and the platform takes the exact remainder so the split always conserves
// the fee to the lamport.
func SplitFee(feeValue, creatorFeeBps, transactionFeeBps uint64) FeeBreakdown {
	if transactionFeeBps == 0 {
		return FeeBreakdown{Total: feeValue, Platform: feeValue}
	}
	creator := mulQuo(feeValue, creatorFeeBps, transactionFeeBps)
	return FeeBreakdown{
		Total:    feeValue,
		Creator:  creator,
		Platform: feeValue - creator,
	}
}

func (t *FeeTotals) add(b FeeBreakdown) {
	t.Transaction += b.Total
	t.Creator += b.Creator
	t.Platform += b.Platform
}
