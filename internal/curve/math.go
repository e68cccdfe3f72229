// internal/curve/math.go
package curve

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// lnPrecision pins the decimal digits used for the logarithmic curve so the
// result is identical on every platform.
const lnPrecision = 32

var decOne = decimal.NewFromInt(1)

// PriceForSupply evaluates the curve's price function at the given total
// supply. All rounding is floor. Results saturate at MaxUint64; in practice a
// curve graduates long before its price approaches that bound.
func PriceForSupply(p Params, supply uint64) uint64 {
	switch p.CurveType {
	case CurveLinear:
		return linearPrice(p.InitialPrice, p.PriceIncrement, supply)
	case CurveExponential:
		return exponentialPrice(p.InitialPrice, p.GrowthRateBps, supply)
	case CurveLogarithmic:
		return logarithmicPrice(p.InitialPrice, supply)
	default:
		return p.InitialPrice
	}
}

// linearPrice: initialPrice + priceIncrement * supply / 1000, truncating.
func linearPrice(initial, increment, supply uint64) uint64 {
	step := mulQuo(increment, supply, supplyScale)
	if step > math.MaxUint64-initial {
		return math.MaxUint64
	}
	return initial + step
}

// exponentialPrice: floor(initial * (1 + growthBps/10000) ^ (supply/1000)).
// The ratio is kept as exact integers, (10000+growthBps)^n / 10000^n, so the
// result never depends on platform float behavior.
func exponentialPrice(initial, growthBps, supply uint64) uint64 {
	n := supply / supplyScale
	if n == 0 || growthBps == 0 {
		return initial
	}
	exp := new(big.Int).SetUint64(n)
	num := new(big.Int).SetUint64(bpsDenominator + growthBps)
	num.Exp(num, exp, nil)
	den := new(big.Int).SetUint64(bpsDenominator)
	den.Exp(den, exp, nil)

	v := new(big.Int).SetUint64(initial)
	v.Mul(v, num)
	v.Quo(v, den)
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}

// logarithmicPrice: floor(initial * (1 + ln(1 + supply/1000))).
func logarithmicPrice(initial, supply uint64) uint64 {
	if supply == 0 {
		return initial
	}
	arg := decOne.Add(decimal.NewFromUint64(supply).DivRound(decimal.NewFromInt(supplyScale), lnPrecision))
	ln, err := arg.Ln(lnPrecision)
	if err != nil {
		// arg >= 1 by construction, Ln cannot fail here
		return initial
	}
	price := decimal.NewFromUint64(initial).Mul(decOne.Add(ln)).Floor()
	v := price.BigInt()
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}

// TokensForValue converts a post-fee buy value into tokens at the pre-trade
// price. The flat rate is a deliberate O(1) approximation of integrating the
// curve over the purchase; downstream fee and graduation numbers are tuned
// against it, so it must not be replaced with exact integration.
func TokensForValue(valueAfterFee, currentPrice uint64) uint64 {
	if currentPrice == 0 {
		return 0
	}
	return valueAfterFee / currentPrice
}

// ValueForTokens prices a sell at the average of the pre- and post-trade
// price: floor(tokens * (priceBefore + priceAfter) / 2).
func ValueForTokens(tokenAmount, priceBefore, priceAfter uint64) uint64 {
	sum := new(big.Int).SetUint64(priceBefore)
	sum.Add(sum, new(big.Int).SetUint64(priceAfter))
	v := new(big.Int).SetUint64(tokenAmount)
	v.Mul(v, sum)
	v.Rsh(v, 1)
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}

// PriceImpactBps reports how far newPrice moved above oldPrice, in basis
// points, capped at the u16 maximum. Downward moves report zero.
func PriceImpactBps(oldPrice, newPrice uint64) uint64 {
	if newPrice <= oldPrice || oldPrice == 0 {
		return 0
	}
	impact := mulQuo(newPrice-oldPrice, bpsDenominator, oldPrice)
	if impact > maxImpactBps {
		return maxImpactBps
	}
	return impact
}

// mulQuo computes floor(a*b/den) with a 128-bit intermediate, saturating at
// MaxUint64. Never multiply before dividing in raw uint64: a*b overflows
// silently for realistic lamport values.
func mulQuo(a, b, den uint64) uint64 {
	if den == 0 {
		return 0
	}
	v := new(big.Int).SetUint64(a)
	v.Mul(v, new(big.Int).SetUint64(b))
	v.Quo(v, new(big.Int).SetUint64(den))
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}

// marketCap computes totalSupply * currentPrice without overflow.
func marketCap(supply, price uint64) *big.Int {
	v := new(big.Int).SetUint64(supply)
	return v.Mul(v, new(big.Int).SetUint64(price))
}

// saturateUint64 clamps a non-negative big integer into uint64 range.
func saturateUint64(v *big.Int) uint64 {
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
