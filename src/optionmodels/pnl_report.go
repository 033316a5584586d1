package optionmodels

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PnLLine is the scenario valuation of a single positioned contract.
type PnLLine struct {
	Strike          float64    `json:"strike" csv:"strike"`
	OptionType      OptionType `json:"option_type" csv:"option_type"`
	Quantity        int        `json:"quantity" csv:"quantity"`
	EntryPrice      float64    `json:"entry_price" csv:"entry_price"`
	ScenarioValue   float64    `json:"scenario_value" csv:"scenario_value"`
	PremiumPaid     float64    `json:"premium_paid" csv:"premium_paid"`
	PremiumReceived float64    `json:"premium_received" csv:"premium_received"`
	Payout          float64    `json:"payout" csv:"payout"`
	PnL             float64    `json:"pnl" csv:"pnl"`
}

type PnLTotals struct {
	PremiumsPaid     float64 `json:"premiums_paid"`
	PremiumsReceived float64 `json:"premiums_received"`
	Payout           float64 `json:"payout"`
	OptionsPnL       float64 `json:"options_pnl"`
	StockPnL         float64 `json:"stock_pnl"`
	TotalPnL         float64 `json:"total_pnl"`
}

// PnLReport is the full scenario evaluation: one line per positioned contract
// plus the aggregate breakdown. Lines hold only nonzero positions; a flat
// contract contributes nothing, not even a zero row.
type PnLReport struct {
	Scenario Scenario  `json:"scenario"`
	Lines    []PnLLine `json:"lines"`
	Totals   PnLTotals `json:"totals"`
}

func (r PnLReport) String() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Strike", "Side", "Qty", "Entry", "Value", "Prem Paid", "Prem Rcvd", "Payout", "P&L"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	for _, line := range r.Lines {
		table.Append([]string{
			p.Sprintf("$%.2f", line.Strike),
			string(line.OptionType),
			fmt.Sprintf("%d", line.Quantity),
			p.Sprintf("$%.2f", line.EntryPrice),
			p.Sprintf("$%.2f", line.ScenarioValue),
			p.Sprintf("$%.2f", line.PremiumPaid),
			p.Sprintf("$%.2f", line.PremiumReceived),
			p.Sprintf("$%.2f", line.Payout),
			p.Sprintf("$%.2f", line.PnL),
		})
	}

	table.Render()

	p.Fprintf(display, "Premiums paid: $%.2f  received: $%.2f  payout: $%.2f\n", r.Totals.PremiumsPaid, r.Totals.PremiumsReceived, r.Totals.Payout)
	p.Fprintf(display, "Options P&L: $%.2f  Stock P&L: $%.2f  TOTAL P&L: $%.2f\n", r.Totals.OptionsPnL, r.Totals.StockPnL, r.Totals.TotalPnL)

	return display.String()
}
