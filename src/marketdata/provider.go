package marketdata

import (
	"context"
	"errors"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

// ErrNoData signals that the provider had nothing for the request (unknown
// ticker, no listed options, empty chain). Callers degrade to a "no data
// loaded" state instead of failing the session.
var ErrNoData = errors.New("no option data available")

// Provider is a market data source for one underlying: a current spot price
// with the listed expirations, and a full chain for one expiration.
type Provider interface {
	// GetSpotAndExpirations returns the current price (0 = unknown) and the
	// available expiration dates for the ticker.
	GetSpotAndExpirations(ctx context.Context, symbol optionmodels.StockSymbol) (float64, []optionmodels.ExpirationDate, error)

	// GetChain returns a normalized chain snapshot for one expiration.
	GetChain(ctx context.Context, symbol optionmodels.StockSymbol, expiration optionmodels.ExpirationDate) (*optionmodels.OptionChain, error)

	// Name identifies the provider in logs.
	Name() string
}
