package export

import (
	"fmt"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

// Fixed grid layout shared by the Calls and Puts tabs. Rows 1-2 hold the
// market data header/values, row 3 the summary totals, row 5 the column
// headers and rows 6+ one contract per row ordered by ascending strike. The
// layout is part of the export contract; downstream formulas reference these
// coordinates.
const (
	DataStartRow = 6

	colStrike          = "A"
	colPosition        = "J"
	colEntry           = "K"
	colPremiumPaid     = "L"
	colPremiumReceived = "M"
	colValueAtExpiry   = "N"
	colPayout          = "O"
	colPnL             = "P"

	// Row 2 input cells shared by every data-row formula.
	cellStockAtExpiry = "$H$2"
	cellStockShares   = "J2"
	cellStockEntry    = "K2"
	cellStockPnL      = "L2"
)

// FormulaBuilder centralizes the coordinate arithmetic for the workbook's
// cell formulas so the exported grid reproduces the scenario engine's
// arithmetic exactly and stays editable after export.
type FormulaBuilder struct{}

// ValueAtExpiry is the intrinsic value against the shared Stock @ Expiry
// input cell: MAX(settlement-strike,0) for calls, MAX(strike-settlement,0)
// for puts.
func (b FormulaBuilder) ValueAtExpiry(row int, side optionmodels.OptionType) string {
	if side == optionmodels.Put {
		return fmt.Sprintf("=MAX(%s%d-%s,0)", colStrike, row, cellStockAtExpiry)
	}

	return fmt.Sprintf("=MAX(%s-%s%d,0)", cellStockAtExpiry, colStrike, row)
}

// PremiumPaid is entry*position*100 for long positions, else 0.
func (b FormulaBuilder) PremiumPaid(row int) string {
	return fmt.Sprintf("=IF(%[2]s%[1]d>0,%[3]s%[1]d*%[2]s%[1]d*100,0)", row, colPosition, colEntry)
}

// PremiumReceived is entry*-position*100 for short positions, else 0.
func (b FormulaBuilder) PremiumReceived(row int) string {
	return fmt.Sprintf("=IF(%[2]s%[1]d<0,%[3]s%[1]d*-%[2]s%[1]d*100,0)", row, colPosition, colEntry)
}

// Payout is value-at-expiry*position*100, signed by the position.
func (b FormulaBuilder) Payout(row int) string {
	return fmt.Sprintf("=%[2]s%[1]d*%[3]s%[1]d*100", row, colValueAtExpiry, colPosition)
}

// PnL is payout - premium paid + premium received.
func (b FormulaBuilder) PnL(row int) string {
	return fmt.Sprintf("=%[2]s%[1]d-%[3]s%[1]d+%[4]s%[1]d", row, colPayout, colPremiumPaid, colPremiumReceived)
}

// StockPnL is (stock-at-expiry - stock entry) * shares.
func (b FormulaBuilder) StockPnL() string {
	return fmt.Sprintf("=(H2-%s)*%s", cellStockEntry, cellStockShares)
}

// StockPnLRef mirrors the stock P&L into the summary row.
func (b FormulaBuilder) StockPnLRef() string {
	return "=" + cellStockPnL
}

// SumColumn totals a data column over the contract rows.
func (b FormulaBuilder) SumColumn(col string, lastRow int) string {
	return fmt.Sprintf("=SUM(%[1]s%[2]d:%[1]s%[3]d)", col, DataStartRow, lastRow)
}

// TotalPnL adds the options P&L and stock P&L summary cells.
func (b FormulaBuilder) TotalPnL() string {
	return "=I3+K3"
}
