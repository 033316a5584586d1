package scenario

import (
	"github.com/jbrewer4/options-pnl/src/optionmodels"
	"github.com/jbrewer4/options-pnl/src/pricing"
)

// Evaluate values every positioned contract in the chain against the scenario
// and rolls the results, plus the stock position, into a single report.
//
// Valuation regimes: with zero days to settlement a contract is worth its
// intrinsic value at the settlement price; with time remaining it is priced
// with the Black-Scholes model using the contract's own implied volatility
// shifted by the scenario's adjustment, or the default volatility when the IV
// is unknown. The intrinsic-only view is the days=0 special case of the same
// code path, not a separate one.
func Evaluate(chain *optionmodels.OptionChain, book *optionmodels.PositionBook, sc optionmodels.Scenario, stock optionmodels.StockPosition) optionmodels.PnLReport {
	report := optionmodels.PnLReport{
		Scenario: sc,
	}

	for _, side := range []optionmodels.OptionType{optionmodels.Call, optionmodels.Put} {
		for _, contract := range chain.Side(side) {
			pos := book.Get(side, contract.Strike)
			if pos.IsFlat() {
				continue
			}

			line := evaluateContract(contract, pos, sc)
			report.Lines = append(report.Lines, line)

			report.Totals.PremiumsPaid += line.PremiumPaid
			report.Totals.PremiumsReceived += line.PremiumReceived
			report.Totals.Payout += line.Payout
			report.Totals.OptionsPnL += line.PnL
		}
	}

	report.Totals.StockPnL = stock.PnL(sc.SettlementPrice)
	report.Totals.TotalPnL = report.Totals.OptionsPnL + report.Totals.StockPnL

	return report
}

// ScenarioValue prices a single contract under the scenario. Exposed so the
// presentation layer can show per-contract values for unpositioned rows too.
func ScenarioValue(contract optionmodels.OptionContract, sc optionmodels.Scenario) float64 {
	if sc.DaysToSettlement <= 0 {
		return pricing.Intrinsic(sc.SettlementPrice, contract.Strike, contract.OptionType)
	}

	vol := pricing.DefaultVolatility
	if contract.HasKnownIV() {
		vol = contract.ImpliedVol * (1 + sc.VolAdjustment)
	}

	timeToSettlement := float64(sc.DaysToSettlement) / 365.0

	return pricing.Price(sc.SettlementPrice, contract.Strike, timeToSettlement, vol, contract.OptionType)
}

func evaluateContract(contract optionmodels.OptionContract, pos optionmodels.Position, sc optionmodels.Scenario) optionmodels.PnLLine {
	// A missing entry price defaults to the contract's mid, the same value the
	// workbook export seeds its entry cell with.
	entry := pos.EntryPrice
	if entry <= 0 {
		entry = contract.Mid
	}

	line := optionmodels.PnLLine{
		Strike:        contract.Strike,
		OptionType:    contract.OptionType,
		Quantity:      pos.Quantity,
		EntryPrice:    entry,
		ScenarioValue: ScenarioValue(contract, sc),
	}

	qty := float64(pos.Quantity)

	if pos.Quantity > 0 {
		line.PremiumPaid = entry * qty * pricing.ContractMultiplier
	} else {
		line.PremiumReceived = entry * -qty * pricing.ContractMultiplier
	}

	line.Payout = line.ScenarioValue * qty * pricing.ContractMultiplier
	line.PnL = line.Payout - line.PremiumPaid + line.PremiumReceived

	return line
}
