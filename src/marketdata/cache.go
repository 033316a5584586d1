package marketdata

import (
	"sync"
	"time"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

// DefaultCacheTTL bounds how long a chain snapshot is served without a
// refetch while the user is only editing positions or scenario inputs.
const DefaultCacheTTL = 5 * time.Minute

type ChainKey struct {
	Symbol     optionmodels.StockSymbol
	Expiration optionmodels.ExpirationDate
}

type chainEntry struct {
	chain     *optionmodels.OptionChain
	fetchedAt time.Time
	gen       uint64
}

// ChainCache maps (ticker, expiration) to a timestamped chain snapshot with a
// TTL. It is an explicit component injected where needed, not process-global
// state. Entries expire by time only; there are no writes to invalidate.
//
// A generation counter makes fetches last-started-wins: a caller takes a
// generation before starting a fetch, and a Put stamped with an older
// generation never overwrites a newer snapshot that landed first.
type ChainCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[ChainKey]chainEntry
	gen     uint64
}

func NewChainCache(ttl time.Duration) *ChainCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &ChainCache{
		ttl:     ttl,
		entries: make(map[ChainKey]chainEntry),
	}
}

// NextGeneration reserves a fetch slot. Call before starting the fetch and
// pass the value to Put when it completes.
func (c *ChainCache) NextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	return c.gen
}

// Get returns the cached snapshot for key if it is still fresh at now.
func (c *ChainCache) Get(key ChainKey, now time.Time) (*optionmodels.OptionChain, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if now.Sub(entry.fetchedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	return entry.chain, true
}

// Put stores a snapshot unless a later-started fetch already stored one for
// the same key.
func (c *ChainCache) Put(key ChainKey, gen uint64, chain *optionmodels.OptionChain, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok && existing.gen > gen {
		return
	}

	c.entries[key] = chainEntry{
		chain:     chain,
		fetchedAt: now,
		gen:       gen,
	}
}
