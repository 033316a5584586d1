package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
	"github.com/jbrewer4/options-pnl/src/scenario"
)

func newWorkbookChain() *optionmodels.OptionChain {
	return &optionmodels.OptionChain{
		Underlying:   optionmodels.StockSymbol("AAPL"),
		Expiration:   optionmodels.ExpirationDate("2026-09-18"),
		Expirations:  []optionmodels.ExpirationDate{"2026-09-18", "2026-10-16"},
		Spot:         230.50,
		DaysToExpiry: 18,
		FetchedAt:    time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		Calls: []optionmodels.OptionContract{
			{Strike: 240, OptionType: optionmodels.Call, Bid: 3.10, Ask: 3.30, Mid: 3.20, ImpliedVol: 0.28, Delta: 0.41},
			{Strike: 225, OptionType: optionmodels.Call, Bid: 9.80, Ask: 10.20, Mid: 10.00, ImpliedVol: 0.30, Delta: 0.63},
		},
		Puts: []optionmodels.OptionContract{
			{Strike: 220, OptionType: optionmodels.Put, Bid: 4.00, Ask: 4.40, Mid: 4.20, ImpliedVol: 0.32, Delta: -0.31},
		},
	}
}

func TestBuildWorkbook(t *testing.T) {
	book := optionmodels.NewPositionBook()
	book.Set(optionmodels.Call, 225, optionmodels.Position{Quantity: 2, EntryPrice: 9.50})
	book.Set(optionmodels.Put, 220, optionmodels.Position{Quantity: -1, EntryPrice: 4.10})

	f, err := BuildWorkbook(WorkbookInput{
		Chain:      newWorkbookChain(),
		Positions:  book,
		Stock:      optionmodels.StockPosition{Shares: 100, EntryPrice: 228.00},
		Settlement: 245.00,
	})
	require.NoError(t, err)
	defer f.Close()

	t.Run("creates the three tabs", func(t *testing.T) {
		assert.ElementsMatch(t, []string{CallsSheet, PutsSheet, ExpirationsSheet}, f.GetSheetList())
	})

	t.Run("market header values", func(t *testing.T) {
		cases := map[string]string{
			"B2": "AAPL",
			"C2": "2026-09-18",
			"D2": "18",
			"F2": "230.5",
			"H2": "245",
			"J2": "100",
			"K2": "228",
		}
		for cell, want := range cases {
			got, err := f.GetCellValue(CallsSheet, cell, excelize.Options{RawCellValue: true})
			require.NoError(t, err)
			assert.Equal(t, want, got, cell)
		}
	})

	t.Run("column headers on row 5", func(t *testing.T) {
		strike, err := f.GetCellValue(CallsSheet, "A5")
		require.NoError(t, err)
		assert.Equal(t, "Strike", strike)

		pnl, err := f.GetCellValue(CallsSheet, "P5")
		require.NoError(t, err)
		assert.Equal(t, "P&L", pnl)
	})

	t.Run("contracts sorted by ascending strike", func(t *testing.T) {
		first, err := f.GetCellValue(CallsSheet, "A6", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "225", first)

		second, err := f.GetCellValue(CallsSheet, "A7", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "240", second)
	})

	t.Run("positions seed the editable cells", func(t *testing.T) {
		qty, err := f.GetCellValue(CallsSheet, "J6", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "2", qty)

		entry, err := f.GetCellValue(CallsSheet, "K6", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "9.5", entry)

		// Flat contracts default entry to the mid.
		flatEntry, err := f.GetCellValue(CallsSheet, "K7", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "3.2", flatEntry)

		shortQty, err := f.GetCellValue(PutsSheet, "J6", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "-1", shortQty)
	})

	t.Run("data row formulas", func(t *testing.T) {
		cases := map[string]string{
			"L6": "IF(J6>0,K6*J6*100,0)",
			"M6": "IF(J6<0,K6*-J6*100,0)",
			"N6": "MAX($H$2-A6,0)",
			"O6": "N6*J6*100",
			"P6": "O6-L6+M6",
		}
		for cell, want := range cases {
			got, err := f.GetCellFormula(CallsSheet, cell)
			require.NoError(t, err)
			assert.Equal(t, want, strings.TrimPrefix(got, "="), cell)
		}

		putValue, err := f.GetCellFormula(PutsSheet, "N6")
		require.NoError(t, err)
		assert.Equal(t, "MAX(A6-$H$2,0)", strings.TrimPrefix(putValue, "="))
	})

	t.Run("summary formulas span the data rows", func(t *testing.T) {
		paid, err := f.GetCellFormula(CallsSheet, "C3")
		require.NoError(t, err)
		assert.Equal(t, "SUM(L6:L7)", strings.TrimPrefix(paid, "="))

		total, err := f.GetCellFormula(CallsSheet, "M3")
		require.NoError(t, err)
		assert.Equal(t, "I3+K3", strings.TrimPrefix(total, "="))

		stock, err := f.GetCellFormula(CallsSheet, "L2")
		require.NoError(t, err)
		assert.Equal(t, "(H2-K2)*J2", strings.TrimPrefix(stock, "="))
	})

	t.Run("expirations tab lists the cycle", func(t *testing.T) {
		first, err := f.GetCellValue(ExpirationsSheet, "A2")
		require.NoError(t, err)
		assert.Equal(t, "2026-09-18", first)

		second, err := f.GetCellValue(ExpirationsSheet, "A3")
		require.NoError(t, err)
		assert.Equal(t, "2026-10-16", second)
	})
}

func TestBuildWorkbookEmptyChain(t *testing.T) {
	_, err := BuildWorkbook(WorkbookInput{Chain: &optionmodels.OptionChain{}})
	assert.Error(t, err)

	_, err = BuildWorkbook(WorkbookInput{})
	assert.Error(t, err)
}

func TestWorkbookEntryDefaultMatchesEngine(t *testing.T) {
	chain := newWorkbookChain()

	book := optionmodels.NewPositionBook()
	book.Set(optionmodels.Call, 225, optionmodels.Position{Quantity: 2})

	report := scenario.Evaluate(chain, book, optionmodels.Scenario{SettlementPrice: 245}, optionmodels.StockPosition{})
	require.Len(t, report.Lines, 1)

	f, err := BuildWorkbook(WorkbookInput{Chain: chain, Positions: book, Settlement: 245})
	require.NoError(t, err)
	defer f.Close()

	// Both sides of the seam default a missing entry price to the mid, so the
	// workbook's premium formula (entry * position * 100) reproduces the
	// engine's numbers.
	entryCell, err := f.GetCellValue(CallsSheet, "K6", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "10", entryCell)
	assert.Equal(t, 10.0, report.Lines[0].EntryPrice)
	assert.Equal(t, 2000.0, report.Lines[0].PremiumPaid)
}

func TestBuildWorkbookDefaultsSettlementToSpot(t *testing.T) {
	f, err := BuildWorkbook(WorkbookInput{Chain: newWorkbookChain()})
	require.NoError(t, err)
	defer f.Close()

	settlement, err := f.GetCellValue(CallsSheet, "H2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "230.5", settlement)
}

func TestWritePnLCSV(t *testing.T) {
	report := optionmodels.PnLReport{
		Lines: []optionmodels.PnLLine{
			{Strike: 225, OptionType: optionmodels.Call, Quantity: 2, EntryPrice: 9.50, ScenarioValue: 20, PremiumPaid: 1900, Payout: 4000, PnL: 2100},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePnLCSV(&buf, report))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "strike")
	assert.Contains(t, lines[0], "pnl")
	assert.Contains(t, lines[1], "225")
	assert.Contains(t, lines[1], "2100")
}
