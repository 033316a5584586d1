package optionmodels

import "strings"

// Wire shapes for a Tradier-style options API. The envelope nests a single
// key per payload; fields beyond what the tool consumes are ignored.

type OptionChainResponseDTO struct {
	Options struct {
		Option []OptionQuoteDTO `json:"option"`
	} `json:"options"`
}

// SplitBySide partitions the chain payload into call and put quotes,
// preserving the provider's row order within each side.
func (dto *OptionChainResponseDTO) SplitBySide() (calls []OptionQuoteDTO, puts []OptionQuoteDTO) {
	for _, quote := range dto.Options.Option {
		switch OptionType(strings.ToLower(quote.OptionType)) {
		case Call:
			calls = append(calls, quote)
		case Put:
			puts = append(puts, quote)
		}
	}

	return calls, puts
}

type OptionExpirationsResponseDTO struct {
	Expirations struct {
		Date []string `json:"date"`
	} `json:"expirations"`
}

func (dto *OptionExpirationsResponseDTO) ToExpirationDates() []ExpirationDate {
	dates := make([]ExpirationDate, 0, len(dto.Expirations.Date))
	for _, d := range dto.Expirations.Date {
		dates = append(dates, ExpirationDate(d))
	}

	return dates
}

type StockQuoteResponseDTO struct {
	Quotes struct {
		Quote struct {
			Symbol string   `json:"symbol"`
			Last   *float64 `json:"last"`
			Bid    *float64 `json:"bid"`
			Ask    *float64 `json:"ask"`
		} `json:"quote"`
	} `json:"quotes"`
}

// SpotPrice prefers the last trade and falls back to the bid/ask mid; 0 means
// unknown.
func (dto *StockQuoteResponseDTO) SpotPrice() float64 {
	q := dto.Quotes.Quote

	if q.Last != nil && *q.Last > 0 {
		return *q.Last
	}

	return MidPrice(toFloat(q.Bid), toFloat(q.Ask), 0)
}
