package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

const (
	CallsSheet       = "Calls"
	PutsSheet        = "Puts"
	ExpirationsSheet = "Expirations"

	fillHeaderDark = "44546A"
	fillHeaderBlue = "4F81BD"
	fillInput      = "FFFFC8"
	fontGain       = "008000"
	fontLoss       = "C00000"
)

var columnHeaders = []string{
	"Strike", "Bid", "Ask", "Last", "Mid", "Volume", "Open Int", "Impl Vol",
	"Delta", "Position", "Entry", "Prem Paid", "Prem Rcvd", "Val @ Exp",
	"Payout", "P&L",
}

// WorkbookInput bundles everything a workbook render needs. Settlement seeds
// the Stock @ Expiry input cell; zero falls back to the chain's spot price.
type WorkbookInput struct {
	Chain      *optionmodels.OptionChain
	Positions  *optionmodels.PositionBook
	Stock      optionmodels.StockPosition
	Settlement float64
}

type workbookStyles struct {
	headerDark  int
	headerBlue  int
	summaryDark int
	input       int
	currency    int
	percent     int
	plain       int
	gainFont    int
	lossFont    int
}

type workbookBuilder struct {
	f        *excelize.File
	styles   workbookStyles
	formulas FormulaBuilder
}

// BuildWorkbook renders the chain, positions and scenario inputs into a
// three-tab workbook whose cells recompute the P&L when edited in a
// spreadsheet application.
func BuildWorkbook(in WorkbookInput) (*excelize.File, error) {
	if in.Chain == nil || in.Chain.IsEmpty() {
		return nil, fmt.Errorf("BuildWorkbook: option chain is empty")
	}

	f := excelize.NewFile()

	b := &workbookBuilder{f: f}
	if err := b.createStyles(); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: create styles: %w", err)
	}

	f.SetSheetName(f.GetSheetName(0), CallsSheet)
	if _, err := f.NewSheet(PutsSheet); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: create puts sheet: %w", err)
	}

	if _, err := f.NewSheet(ExpirationsSheet); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: create expirations sheet: %w", err)
	}

	settlement := in.Settlement
	if settlement <= 0 {
		settlement = in.Chain.Spot
	}

	positions := in.Positions
	if positions == nil {
		positions = optionmodels.NewPositionBook()
	}

	if err := b.renderSide(CallsSheet, optionmodels.Call, in, positions, settlement); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: render calls: %w", err)
	}

	if err := b.renderSide(PutsSheet, optionmodels.Put, in, positions, settlement); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: render puts: %w", err)
	}

	if err := b.renderExpirations(in.Chain); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: render expirations: %w", err)
	}

	return f, nil
}

func (b *workbookBuilder) createStyles() error {
	var err error

	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "D9D9D9"},
		{Type: "right", Style: 1, Color: "D9D9D9"},
		{Type: "top", Style: 1, Color: "D9D9D9"},
		{Type: "bottom", Style: 1, Color: "D9D9D9"},
	}

	currencyFmt := "#,##0.00"
	percentFmt := "0.00%"

	b.styles.headerDark, err = b.f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fillHeaderDark}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	b.styles.headerBlue, err = b.f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fillHeaderBlue}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	b.styles.summaryDark, err = b.f.NewStyle(&excelize.Style{
		Fill:         excelize.Fill{Type: "pattern", Color: []string{fillHeaderDark}, Pattern: 1},
		Font:         &excelize.Font{Bold: true, Color: "FFFFFF"},
		Border:       thin,
		CustomNumFmt: &currencyFmt,
	})
	if err != nil {
		return err
	}

	b.styles.input, err = b.f.NewStyle(&excelize.Style{
		Fill:         excelize.Fill{Type: "pattern", Color: []string{fillInput}, Pattern: 1},
		Border:       thin,
		CustomNumFmt: &currencyFmt,
	})
	if err != nil {
		return err
	}

	b.styles.currency, err = b.f.NewStyle(&excelize.Style{
		Border:       thin,
		CustomNumFmt: &currencyFmt,
	})
	if err != nil {
		return err
	}

	b.styles.percent, err = b.f.NewStyle(&excelize.Style{
		Border:       thin,
		CustomNumFmt: &percentFmt,
	})
	if err != nil {
		return err
	}

	b.styles.plain, err = b.f.NewStyle(&excelize.Style{Border: thin})
	if err != nil {
		return err
	}

	b.styles.gainFont, err = b.f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: fontGain, Bold: true},
	})
	if err != nil {
		return err
	}

	b.styles.lossFont, err = b.f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: fontLoss, Bold: true},
	})
	if err != nil {
		return err
	}

	return nil
}

func (b *workbookBuilder) renderSide(sheet string, side optionmodels.OptionType, in WorkbookInput, positions *optionmodels.PositionBook, settlement float64) error {
	contracts := make([]optionmodels.OptionContract, len(in.Chain.Side(side)))
	copy(contracts, in.Chain.Side(side))
	sort.SliceStable(contracts, func(i, j int) bool {
		return contracts[i].Strike < contracts[j].Strike
	})

	if err := b.renderMarketHeader(sheet, in, settlement); err != nil {
		return err
	}

	lastRow := DataStartRow
	if len(contracts) > 0 {
		lastRow = DataStartRow + len(contracts) - 1
	}

	if err := b.renderSummary(sheet, lastRow); err != nil {
		return err
	}

	if err := b.renderColumnHeaders(sheet); err != nil {
		return err
	}

	for i, contract := range contracts {
		row := DataStartRow + i
		position := positions.Get(side, contract.Strike)
		if err := b.renderContractRow(sheet, row, side, contract, position); err != nil {
			return err
		}
	}

	if err := b.applyGainLossFormat(sheet, lastRow); err != nil {
		return err
	}

	if err := b.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      DataStartRow - 1,
		TopLeftCell: fmt.Sprintf("A%d", DataStartRow),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	widths := map[string]float64{
		"A": 10, "B": 9, "C": 9, "D": 9, "E": 9, "F": 10, "G": 10, "H": 10,
		"I": 9, "J": 10, "K": 10, "L": 12, "M": 12, "N": 11, "O": 12, "P": 12,
	}
	for col, width := range widths {
		if err := b.f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	return nil
}

func (b *workbookBuilder) renderMarketHeader(sheet string, in WorkbookInput, settlement float64) error {
	headers := map[string]string{
		"B1": "Ticker",
		"C1": "Expiry",
		"D1": "Days",
		"F1": "Current Price",
		"H1": "Stock @ Expiry",
		"J1": "Stock Shares",
		"K1": "Stock Entry",
		"L1": "Stock P&L",
	}
	for cell, label := range headers {
		if err := b.f.SetCellValue(sheet, cell, label); err != nil {
			return err
		}
	}

	values := map[string]interface{}{
		"B2": in.Chain.Underlying.String(),
		"C2": string(in.Chain.Expiration),
		"D2": in.Chain.DaysToExpiry,
		"F2": in.Chain.Spot,
		"H2": settlement,
		"J2": in.Stock.Shares,
		"K2": in.Stock.EntryPrice,
	}
	for cell, value := range values {
		if err := b.f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}

	if err := b.f.SetCellFormula(sheet, "L2", b.formulas.StockPnL()); err != nil {
		return err
	}

	if err := b.f.SetCellStyle(sheet, "A1", "P1", b.styles.headerDark); err != nil {
		return err
	}

	if err := b.f.SetCellStyle(sheet, "A2", "P2", b.styles.currency); err != nil {
		return err
	}

	// Editable scenario inputs.
	for _, cell := range []string{"H2", "J2", "K2"} {
		if err := b.f.SetCellStyle(sheet, cell, cell, b.styles.input); err != nil {
			return err
		}
	}

	return nil
}

func (b *workbookBuilder) renderSummary(sheet string, lastRow int) error {
	labels := map[string]string{
		"B3": "Prem Paid:",
		"D3": "Prem Rcvd:",
		"F3": "Payout:",
		"H3": "Options P&L:",
		"J3": "Stock P&L:",
		"L3": "TOTAL P&L:",
	}
	for cell, label := range labels {
		if err := b.f.SetCellValue(sheet, cell, label); err != nil {
			return err
		}
	}

	formulas := map[string]string{
		"C3": b.formulas.SumColumn(colPremiumPaid, lastRow),
		"E3": b.formulas.SumColumn(colPremiumReceived, lastRow),
		"G3": b.formulas.SumColumn(colPayout, lastRow),
		"I3": b.formulas.SumColumn(colPnL, lastRow),
		"K3": b.formulas.StockPnLRef(),
		"M3": b.formulas.TotalPnL(),
	}
	for cell, formula := range formulas {
		if err := b.f.SetCellFormula(sheet, cell, formula); err != nil {
			return err
		}
	}

	return b.f.SetCellStyle(sheet, "A3", "P3", b.styles.summaryDark)
}

func (b *workbookBuilder) renderColumnHeaders(sheet string) error {
	for i, header := range columnHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, DataStartRow-1)
		if err != nil {
			return err
		}

		if err := b.f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	lastCol, err := excelize.CoordinatesToCellName(len(columnHeaders), DataStartRow-1)
	if err != nil {
		return err
	}

	return b.f.SetCellStyle(sheet, fmt.Sprintf("A%d", DataStartRow-1), lastCol, b.styles.headerBlue)
}

func (b *workbookBuilder) renderContractRow(sheet string, row int, side optionmodels.OptionType, contract optionmodels.OptionContract, position optionmodels.Position) error {
	entry := position.EntryPrice
	if position.IsFlat() || entry <= 0 {
		entry = contract.Mid
	}

	values := []interface{}{
		contract.Strike,
		contract.Bid,
		contract.Ask,
		contract.Last,
		contract.Mid,
		contract.Volume,
		contract.OpenInterest,
		contract.ImpliedVol,
		contract.Delta,
		position.Quantity,
		entry,
	}
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}

		if err := b.f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}

	formulas := map[string]string{
		colPremiumPaid:     b.formulas.PremiumPaid(row),
		colPremiumReceived: b.formulas.PremiumReceived(row),
		colValueAtExpiry:   b.formulas.ValueAtExpiry(row, side),
		colPayout:          b.formulas.Payout(row),
		colPnL:             b.formulas.PnL(row),
	}
	for col, formula := range formulas {
		if err := b.f.SetCellFormula(sheet, fmt.Sprintf("%s%d", col, row), formula); err != nil {
			return err
		}
	}

	if err := b.f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("P%d", row), b.styles.currency); err != nil {
		return err
	}

	if err := b.f.SetCellStyle(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("G%d", row), b.styles.plain); err != nil {
		return err
	}

	if err := b.f.SetCellStyle(sheet, fmt.Sprintf("H%d", row), fmt.Sprintf("H%d", row), b.styles.percent); err != nil {
		return err
	}

	// Editable position inputs.
	for _, col := range []string{colPosition, colEntry} {
		if err := b.f.SetCellStyle(sheet, fmt.Sprintf("%s%d", col, row), fmt.Sprintf("%s%d", col, row), b.styles.input); err != nil {
			return err
		}
	}

	return nil
}

func (b *workbookBuilder) applyGainLossFormat(sheet string, lastRow int) error {
	refs := []string{
		fmt.Sprintf("%s%d:%s%d", colPnL, DataStartRow, colPnL, lastRow),
		"M3",
		"L2",
	}
	for _, ref := range refs {
		gain := b.styles.gainFont
		loss := b.styles.lossFont
		if err := b.f.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{
			{Type: "cell", Criteria: ">", Value: "0", Format: &gain},
			{Type: "cell", Criteria: "<", Value: "0", Format: &loss},
		}); err != nil {
			return err
		}
	}

	return nil
}

func (b *workbookBuilder) renderExpirations(chain *optionmodels.OptionChain) error {
	if err := b.f.SetCellValue(ExpirationsSheet, "A1", "Expiration"); err != nil {
		return err
	}

	if err := b.f.SetCellValue(ExpirationsSheet, "B1", "Days"); err != nil {
		return err
	}

	if err := b.f.SetCellStyle(ExpirationsSheet, "A1", "B1", b.styles.headerDark); err != nil {
		return err
	}

	now := chain.FetchedAt
	for i, expiration := range chain.Expirations {
		row := i + 2

		if err := b.f.SetCellValue(ExpirationsSheet, fmt.Sprintf("A%d", row), string(expiration)); err != nil {
			return err
		}

		// Mark the expiration the workbook was built for.
		if expiration == chain.Expiration {
			if err := b.f.SetCellStyle(ExpirationsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), b.styles.input); err != nil {
				return err
			}
		}

		days, err := expiration.DaysUntil(now)
		if err != nil {
			continue
		}

		if err := b.f.SetCellValue(ExpirationsSheet, fmt.Sprintf("B%d", row), days); err != nil {
			return err
		}
	}

	return b.f.SetColWidth(ExpirationsSheet, "A", "A", 14)
}
