package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

// PolygonProvider serves the same chain snapshots from the Polygon REST API.
// Polygon reports concrete numerics, so quotes are mapped onto the nullable
// DTO shape before the shared sanitization path.
type PolygonProvider struct {
	Client *polygon.Client
	now    func() time.Time
}

func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{
		Client: polygon.New(apiKey),
		now:    time.Now,
	}
}

func (p *PolygonProvider) Name() string {
	return "polygon"
}

func (p *PolygonProvider) GetSpotAndExpirations(ctx context.Context, symbol optionmodels.StockSymbol) (float64, []optionmodels.ExpirationDate, error) {
	spot, err := p.fetchSpot(ctx, symbol)
	if err != nil {
		log.Warnf("GetSpotAndExpirations: failed to fetch spot for %s: %v", symbol, err)
		spot = 0
	}

	params := &models.ListOptionsChainParams{
		UnderlyingAsset: symbol.String(),
	}

	seen := make(map[optionmodels.ExpirationDate]bool)
	iter := p.Client.ListOptionsChainSnapshot(ctx, params)
	for iter.Next() {
		exp := optionmodels.NewExpirationDate(time.Time(iter.Item().Details.ExpirationDate))
		seen[exp] = true
	}

	if err := iter.Err(); err != nil {
		return 0, nil, fmt.Errorf("GetSpotAndExpirations: failed to list contracts: %w", err)
	}

	if len(seen) == 0 {
		return 0, nil, fmt.Errorf("GetSpotAndExpirations: %s: %w", symbol, ErrNoData)
	}

	expirations := make([]optionmodels.ExpirationDate, 0, len(seen))
	for exp := range seen {
		expirations = append(expirations, exp)
	}

	sort.Slice(expirations, func(i, j int) bool { return expirations[i] < expirations[j] })

	return spot, expirations, nil
}

func (p *PolygonProvider) GetChain(ctx context.Context, symbol optionmodels.StockSymbol, expiration optionmodels.ExpirationDate) (*optionmodels.OptionChain, error) {
	spot, expirations, err := p.GetSpotAndExpirations(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("GetChain: %w", err)
	}

	expDate, err := expiration.Parse()
	if err != nil {
		return nil, fmt.Errorf("GetChain: %w", err)
	}

	params := models.ListOptionsChainParams{
		UnderlyingAsset: symbol.String(),
	}.WithExpirationDate(models.EQ, models.Date(expDate))

	var calls, puts []optionmodels.OptionQuoteDTO

	iter := p.Client.ListOptionsChainSnapshot(ctx, params)
	for iter.Next() {
		item := iter.Item()
		dto := snapshotToQuoteDTO(item)

		switch optionmodels.OptionType(item.Details.ContractType) {
		case optionmodels.Call:
			calls = append(calls, dto)
		case optionmodels.Put:
			puts = append(puts, dto)
		}

		// The snapshot carries the underlying's own price; use it when the
		// previous-close lookup came back empty.
		if spot == 0 && item.UnderlyingAsset.Price > 0 {
			spot = item.UnderlyingAsset.Price
		}
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("GetChain: failed to list chain snapshot: %w", err)
	}

	if len(calls) == 0 && len(puts) == 0 {
		return nil, fmt.Errorf("GetChain: %s %s: %w", symbol, expiration, ErrNoData)
	}

	return BuildOptionChain(symbol, expiration, expirations, spot, calls, puts, p.now()), nil
}

func (p *PolygonProvider) fetchSpot(ctx context.Context, symbol optionmodels.StockSymbol) (float64, error) {
	res, err := p.Client.GetPreviousCloseAgg(ctx, models.GetPreviousCloseAggParams{
		Ticker: symbol.String(),
	}.WithAdjusted(true))
	if err != nil {
		return 0, fmt.Errorf("fetchSpot: %w", err)
	}

	if len(res.Results) == 0 {
		return 0, fmt.Errorf("fetchSpot: no aggregates for %s", symbol)
	}

	return res.Results[0].Close, nil
}

func snapshotToQuoteDTO(item models.OptionContractSnapshot) optionmodels.OptionQuoteDTO {
	strike := item.Details.StrikePrice
	bid := item.LastQuote.Bid
	ask := item.LastQuote.Ask
	last := item.LastTrade.Price
	volume := int(item.Day.Volume)
	oi := int(item.OpenInterest)

	dto := optionmodels.OptionQuoteDTO{
		Strike:       &strike,
		OptionType:   item.Details.ContractType,
		Bid:          &bid,
		Ask:          &ask,
		Last:         &last,
		Volume:       &volume,
		OpenInterest: &oi,
	}

	if item.ImpliedVolatility > 0 {
		iv := item.ImpliedVolatility
		dto.Greeks = &optionmodels.GreeksDTO{MidIV: &iv}
	}

	return dto
}
