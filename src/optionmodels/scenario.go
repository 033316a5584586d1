package optionmodels

import "fmt"

// Scenario is the hypothetical market state positions are valued against: a
// settlement stock price, a horizon in days until that settlement (0 = at
// expiration, valued at intrinsic), and an additive percentage shift applied
// to each contract's own implied volatility when time remains.
type Scenario struct {
	SettlementPrice  float64 `json:"settlement_price"`
	DaysToSettlement int     `json:"days_to_settlement"`
	VolAdjustment    float64 `json:"vol_adjustment"`
}

// Validate rejects inputs the engine is allowed to assume away. Range
// constraints belong to the presentation layer; this is the last gate.
func (s Scenario) Validate() error {
	if s.DaysToSettlement < 0 {
		return fmt.Errorf("Scenario: Validate: days_to_settlement must be >= 0, got %d", s.DaysToSettlement)
	}

	return nil
}
