package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

// TradierProvider fetches quotes and option chains from a Tradier-compatible
// REST API using bearer token auth.
type TradierProvider struct {
	BaseURL     string
	BearerToken string
	client      *http.Client
	now         func() time.Time
}

func NewTradierProvider(baseURL, bearerToken string) *TradierProvider {
	return &TradierProvider{
		BaseURL:     baseURL,
		BearerToken: bearerToken,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

func (p *TradierProvider) Name() string {
	return "tradier"
}

func (p *TradierProvider) GetSpotAndExpirations(ctx context.Context, symbol optionmodels.StockSymbol) (float64, []optionmodels.ExpirationDate, error) {
	var expirationsDTO optionmodels.OptionExpirationsResponseDTO
	params := url.Values{"symbol": {symbol.String()}}
	if err := p.fetch(ctx, "/v1/markets/options/expirations", params, &expirationsDTO); err != nil {
		return 0, nil, fmt.Errorf("GetSpotAndExpirations: failed to fetch expirations: %w", err)
	}

	expirations := expirationsDTO.ToExpirationDates()
	if len(expirations) == 0 {
		return 0, nil, fmt.Errorf("GetSpotAndExpirations: %s: %w", symbol, ErrNoData)
	}

	// Spot is best effort: an unknown price renders as 0, it does not fail
	// the request.
	var quoteDTO optionmodels.StockQuoteResponseDTO
	spot := 0.0
	if err := p.fetch(ctx, "/v1/markets/quotes", url.Values{"symbols": {symbol.String()}}, &quoteDTO); err != nil {
		log.Warnf("GetSpotAndExpirations: failed to fetch spot for %s: %v", symbol, err)
	} else {
		spot = quoteDTO.SpotPrice()
	}

	return spot, expirations, nil
}

func (p *TradierProvider) GetChain(ctx context.Context, symbol optionmodels.StockSymbol, expiration optionmodels.ExpirationDate) (*optionmodels.OptionChain, error) {
	spot, expirations, err := p.GetSpotAndExpirations(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("GetChain: %w", err)
	}

	var chainDTO optionmodels.OptionChainResponseDTO
	params := url.Values{
		"symbol":     {symbol.String()},
		"expiration": {string(expiration)},
		"greeks":     {"true"},
	}
	if err := p.fetch(ctx, "/v1/markets/options/chains", params, &chainDTO); err != nil {
		return nil, fmt.Errorf("GetChain: failed to fetch chain: %w", err)
	}

	calls, puts := chainDTO.SplitBySide()
	if len(calls) == 0 && len(puts) == 0 {
		return nil, fmt.Errorf("GetChain: %s %s: %w", symbol, expiration, ErrNoData)
	}

	chain := BuildOptionChain(symbol, expiration, expirations, spot, calls, puts, p.now())

	log.Debugf("GetChain: fetched %d calls and %d puts for %s %s", len(chain.Calls), len(chain.Puts), symbol, expiration)

	return chain, nil
}

func (p *TradierProvider) fetch(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("fetch: failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", p.BearerToken))

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: request failed: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch: %s returned %s", path, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("fetch: failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("fetch: failed to parse response: %w", err)
	}

	return nil
}
