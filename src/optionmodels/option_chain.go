package optionmodels

import "time"

// OptionChain is an immutable snapshot of one ticker/expiration chain, both
// sides, taken at FetchedAt. Contracts keep the provider's ordering; duplicate
// strikes are kept as independent rows.
type OptionChain struct {
	Underlying   StockSymbol      `json:"underlying"`
	Expiration   ExpirationDate   `json:"expiration"`
	Expirations  []ExpirationDate `json:"expirations"`
	Spot         float64          `json:"spot"`
	DaysToExpiry int              `json:"days_to_expiry"`
	Calls        []OptionContract `json:"calls"`
	Puts         []OptionContract `json:"puts"`
	FetchedAt    time.Time        `json:"fetched_at"`
}

func (c *OptionChain) Side(side OptionType) []OptionContract {
	if side == Put {
		return c.Puts
	}

	return c.Calls
}

func (c *OptionChain) IsEmpty() bool {
	return len(c.Calls) == 0 && len(c.Puts) == 0
}
