package marketdata

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
	"github.com/jbrewer4/options-pnl/src/pricing"
)

// minTimeToExpiry keeps same-day chains priceable: a zero year fraction would
// trip the degenerate-input fallback for every delta in the chain.
const minTimeToExpiry = 0.001

// BuildOptionChain sanitizes both sides of a raw chain and computes per
// contract mid and delta. Provider ordering is preserved and duplicate strikes
// are kept. Contracts with unknown IV get delta 0: no fabricated delta is
// shown when there is no volatility input.
func BuildOptionChain(symbol optionmodels.StockSymbol, expiration optionmodels.ExpirationDate, expirations []optionmodels.ExpirationDate, spot float64, calls, puts []optionmodels.OptionQuoteDTO, now time.Time) *optionmodels.OptionChain {
	daysToExpiry, err := expiration.DaysUntil(now)
	if err != nil {
		log.Warnf("BuildOptionChain: unparseable expiration %s, assuming expired: %v", expiration, err)
		daysToExpiry = 0
	}

	timeToExpiry := float64(daysToExpiry) / 365.0
	if timeToExpiry < minTimeToExpiry {
		timeToExpiry = minTimeToExpiry
	}

	chain := &optionmodels.OptionChain{
		Underlying:   symbol,
		Expiration:   expiration,
		Expirations:  expirations,
		Spot:         spot,
		DaysToExpiry: daysToExpiry,
		FetchedAt:    now,
	}

	chain.Calls = normalizeSide(calls, optionmodels.Call, spot, timeToExpiry)
	chain.Puts = normalizeSide(puts, optionmodels.Put, spot, timeToExpiry)

	return chain
}

func normalizeSide(dtos []optionmodels.OptionQuoteDTO, side optionmodels.OptionType, spot, timeToExpiry float64) []optionmodels.OptionContract {
	contracts := make([]optionmodels.OptionContract, 0, len(dtos))

	for i := range dtos {
		contract := dtos[i].ToContract(side)

		if contract.HasKnownIV() {
			contract.Delta = pricing.Delta(spot, contract.Strike, timeToExpiry, contract.ImpliedVol, side)
		}

		contracts = append(contracts, contract)
	}

	return contracts
}
