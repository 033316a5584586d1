package pricing

import (
	"math"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

const (
	// RiskFreeRate is the annualized rate used everywhere in the model.
	RiskFreeRate = 0.045

	// DefaultVolatility stands in for contracts whose implied volatility is
	// unknown, so a theoretical price is still defined.
	DefaultVolatility = 0.30

	// ContractMultiplier is the number of shares per listed contract.
	ContractMultiplier = 100
)

// Delta returns the Black-Scholes delta of a European option. Degenerate
// inputs (non-positive time, volatility, spot or strike) fall back to the
// sign-convention default of +0.5 for calls and -0.5 for puts, so a malformed
// quote still renders instead of aborting the chain.
func Delta(spot, strike, timeToExpiry, volatility float64, side optionmodels.OptionType) float64 {
	if timeToExpiry <= 0 || volatility <= 0 || spot <= 0 || strike <= 0 {
		return defaultDelta(side)
	}

	d1 := calcD1(spot, strike, timeToExpiry, volatility)
	if math.IsNaN(d1) || math.IsInf(d1, 0) {
		return defaultDelta(side)
	}

	if side == optionmodels.Put {
		return normCDF(d1) - 1
	}

	return normCDF(d1)
}

// Price returns the Black-Scholes fair value of a European option, clamped to
// be non-negative. At or past expiry the exact intrinsic value is returned,
// which is the correct economic answer rather than a fallback. Degenerate
// volatility/spot/strike inputs also collapse to intrinsic.
func Price(spot, strike, timeToExpiry, volatility float64, side optionmodels.OptionType) float64 {
	if timeToExpiry <= 0 {
		return Intrinsic(spot, strike, side)
	}

	if volatility <= 0 || spot <= 0 || strike <= 0 {
		return Intrinsic(spot, strike, side)
	}

	d1 := calcD1(spot, strike, timeToExpiry, volatility)
	if math.IsNaN(d1) || math.IsInf(d1, 0) {
		return Intrinsic(spot, strike, side)
	}

	d2 := d1 - volatility*math.Sqrt(timeToExpiry)
	discount := math.Exp(-RiskFreeRate * timeToExpiry)

	var price float64
	if side == optionmodels.Put {
		price = strike*discount*normCDF(-d2) - spot*normCDF(-d1)
	} else {
		price = spot*normCDF(d1) - strike*discount*normCDF(d2)
	}

	return math.Max(price, 0)
}

// Intrinsic is the exercise value at a settlement price: max(S-K,0) for calls
// and max(K-S,0) for puts. Settlement exactly at the strike is worth zero.
func Intrinsic(settlementPrice, strike float64, side optionmodels.OptionType) float64 {
	if side == optionmodels.Put {
		return math.Max(strike-settlementPrice, 0)
	}

	return math.Max(settlementPrice-strike, 0)
}

func defaultDelta(side optionmodels.OptionType) float64 {
	if side == optionmodels.Put {
		return -0.5
	}

	return 0.5
}

// d1 = [ln(S/K) + (r + 0.5*sigma^2)*T] / (sigma * sqrt(T))
func calcD1(spot, strike, timeToExpiry, volatility float64) float64 {
	return (math.Log(spot/strike) + (RiskFreeRate+0.5*volatility*volatility)*timeToExpiry) / (volatility * math.Sqrt(timeToExpiry))
}

// normCDF evaluates the standard normal CDF via the error function:
// N(x) = 0.5 * (1 + erf(x / sqrt(2))).
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
