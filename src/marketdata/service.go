package marketdata

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

// ChainService fronts a Provider with the chain cache so position and
// scenario edits do not trigger redundant network calls.
type ChainService struct {
	provider Provider
	cache    *ChainCache
	now      func() time.Time
}

func NewChainService(provider Provider, cache *ChainCache) *ChainService {
	return &ChainService{
		provider: provider,
		cache:    cache,
		now:      time.Now,
	}
}

func (s *ChainService) Provider() Provider {
	return s.provider
}

// FetchChain returns the chain snapshot for (symbol, expiration), served from
// cache while fresh.
func (s *ChainService) FetchChain(ctx context.Context, symbol optionmodels.StockSymbol, expiration optionmodels.ExpirationDate) (*optionmodels.OptionChain, error) {
	key := ChainKey{Symbol: symbol, Expiration: expiration}

	if chain, ok := s.cache.Get(key, s.now()); ok {
		log.Debugf("FetchChain: cache hit for %s %s", symbol, expiration)
		return chain, nil
	}

	gen := s.cache.NextGeneration()

	chain, err := s.provider.GetChain(ctx, symbol, expiration)
	if err != nil {
		return nil, fmt.Errorf("FetchChain: %s: %w", s.provider.Name(), err)
	}

	s.cache.Put(key, gen, chain, s.now())

	return chain, nil
}

// FetchExpirations returns the spot price and listed expirations for symbol.
func (s *ChainService) FetchExpirations(ctx context.Context, symbol optionmodels.StockSymbol) (float64, []optionmodels.ExpirationDate, error) {
	spot, expirations, err := s.provider.GetSpotAndExpirations(ctx, symbol)
	if err != nil {
		return 0, nil, fmt.Errorf("FetchExpirations: %s: %w", s.provider.Name(), err)
	}

	return spot, expirations, nil
}
