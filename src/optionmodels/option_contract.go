package optionmodels

// OptionContract is one sanitized quote for a (strike, side) pair within a chain
// snapshot. Contracts are created fresh on every fetch and never mutated.
type OptionContract struct {
	Strike       float64    `json:"strike"`
	OptionType   OptionType `json:"option_type"`
	Bid          float64    `json:"bid"`
	Ask          float64    `json:"ask"`
	Last         float64    `json:"last"`
	Mid          float64    `json:"mid"`
	Volume       int        `json:"volume"`
	OpenInterest int        `json:"open_interest"`
	ImpliedVol   float64    `json:"implied_volatility"`
	Delta        float64    `json:"delta"`
}

// HasKnownIV reports whether the provider supplied a usable implied volatility.
// A zero IV means "unknown", not "zero volatility".
func (c *OptionContract) HasKnownIV() bool {
	return c.ImpliedVol > 0
}

// MidPrice averages bid and ask when both sides are quoted, otherwise falls
// back to the last traded price.
func MidPrice(bid, ask, last float64) float64 {
	if bid > 0 && ask > 0 {
		return (bid + ask) / 2
	}

	return last
}
