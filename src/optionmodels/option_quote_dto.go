package optionmodels

// OptionQuoteDTO is a raw provider quote. Numeric fields are pointers because
// providers routinely omit or null them; sanitization happens exactly once, in
// ToContract, and nothing downstream sees a nullable value.
type OptionQuoteDTO struct {
	Strike       *float64   `json:"strike"`
	OptionType   string     `json:"option_type"`
	Bid          *float64   `json:"bid"`
	Ask          *float64   `json:"ask"`
	Last         *float64   `json:"last"`
	Volume       *int       `json:"volume"`
	OpenInterest *int       `json:"open_interest"`
	Greeks       *GreeksDTO `json:"greeks"`
}

// GreeksDTO carries only the implied volatility. Providers also quote their
// own delta, but it is ignored; deltas are always recomputed from the IV so
// every contract in the chain prices off the same model.
type GreeksDTO struct {
	MidIV *float64 `json:"mid_iv"`
}

// ToContract sanitizes the raw quote into an immutable OptionContract: missing
// numerics become 0, implied volatility stays 0 when unknown, and the mid price
// is derived from bid/ask with a last-price fallback. Delta is filled in later
// by the chain assembly, which owns the pricing model dependency.
func (dto *OptionQuoteDTO) ToContract(side OptionType) OptionContract {
	c := OptionContract{
		Strike:       toFloat(dto.Strike),
		OptionType:   side,
		Bid:          toFloat(dto.Bid),
		Ask:          toFloat(dto.Ask),
		Last:         toFloat(dto.Last),
		Volume:       toInt(dto.Volume),
		OpenInterest: toInt(dto.OpenInterest),
	}

	if dto.Greeks != nil {
		c.ImpliedVol = toFloat(dto.Greeks.MidIV)
	}

	c.Mid = MidPrice(c.Bid, c.Ask, c.Last)

	return c
}

func toFloat(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}

func toInt(v *int) int {
	if v == nil {
		return 0
	}

	return *v
}
