package optionmodels

// Position is a user-entered overlay on a contract: signed contract count
// (positive = long, negative = short) and the price paid or received per share
// at entry. A zero Quantity means flat.
type Position struct {
	Quantity   int     `json:"quantity"`
	EntryPrice float64 `json:"entry_price"`
}

func (p Position) IsFlat() bool {
	return p.Quantity == 0
}

// StockPosition is an optional share position valued alongside the options.
type StockPosition struct {
	Shares     int     `json:"shares"`
	EntryPrice float64 `json:"entry_price"`
}

// PnL is the linear stock term: (settlement - entry) * shares.
func (s StockPosition) PnL(settlementPrice float64) float64 {
	return (settlementPrice - s.EntryPrice) * float64(s.Shares)
}

// PositionBook holds the session's option positions, keyed by strike with
// calls and puts tracked independently. It is a plain value object owned by
// the caller and passed explicitly into the scenario engine.
type PositionBook struct {
	Calls map[float64]Position `json:"calls"`
	Puts  map[float64]Position `json:"puts"`
}

func NewPositionBook() *PositionBook {
	return &PositionBook{
		Calls: make(map[float64]Position),
		Puts:  make(map[float64]Position),
	}
}

func (b *PositionBook) side(side OptionType) map[float64]Position {
	if side == Put {
		return b.Puts
	}

	return b.Calls
}

func (b *PositionBook) Set(side OptionType, strike float64, pos Position) {
	if pos.IsFlat() {
		delete(b.side(side), strike)
		return
	}

	b.side(side)[strike] = pos
}

// Get returns the position for (side, strike). A missing entry is a flat
// position, not an error.
func (b *PositionBook) Get(side OptionType, strike float64) Position {
	return b.side(side)[strike]
}

func (b *PositionBook) Len() int {
	return len(b.Calls) + len(b.Puts)
}
