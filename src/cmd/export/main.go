package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jbrewer4/options-pnl/src/export"
	"github.com/jbrewer4/options-pnl/src/marketdata"
	"github.com/jbrewer4/options-pnl/src/optionmodels"
	"github.com/jbrewer4/options-pnl/src/scenario"
	"github.com/jbrewer4/options-pnl/src/utils"
)

type RunArgs struct {
	Symbol     string
	Expiration string
	Settlement float64
	Days       int
	VolAdj     float64
	Positions  []string
	Shares     int
	StockEntry float64
	Output     string
	CSVOutput  string
}

type RunResult struct {
	WorkbookPath string
	CSVPath      string
}

var runCmd = &cobra.Command{
	Use:   "export --symbol AAPL --expiration 2026-09-18 --position call:225:2:9.50 --output aapl.xlsx",
	Short: "Fetch an option chain, evaluate a scenario P&L, and export a formula-driven workbook",
	Run: func(cmd *cobra.Command, args []string) {
		runArgs := RunArgs{}

		var err error
		if runArgs.Symbol, err = cmd.Flags().GetString("symbol"); err != nil {
			log.Fatalf("error getting symbol: %v", err)
		}

		if runArgs.Expiration, err = cmd.Flags().GetString("expiration"); err != nil {
			log.Fatalf("error getting expiration: %v", err)
		}

		if runArgs.Settlement, err = cmd.Flags().GetFloat64("settlement"); err != nil {
			log.Fatalf("error getting settlement: %v", err)
		}

		if runArgs.Days, err = cmd.Flags().GetInt("days"); err != nil {
			log.Fatalf("error getting days: %v", err)
		}

		if runArgs.VolAdj, err = cmd.Flags().GetFloat64("vol-adj"); err != nil {
			log.Fatalf("error getting vol-adj: %v", err)
		}

		if runArgs.Positions, err = cmd.Flags().GetStringSlice("position"); err != nil {
			log.Fatalf("error getting position: %v", err)
		}

		if runArgs.Shares, err = cmd.Flags().GetInt("shares"); err != nil {
			log.Fatalf("error getting shares: %v", err)
		}

		if runArgs.StockEntry, err = cmd.Flags().GetFloat64("stock-entry"); err != nil {
			log.Fatalf("error getting stock-entry: %v", err)
		}

		if runArgs.Output, err = cmd.Flags().GetString("output"); err != nil {
			log.Fatalf("error getting output: %v", err)
		}

		if runArgs.CSVOutput, err = cmd.Flags().GetString("csv"); err != nil {
			log.Fatalf("error getting csv: %v", err)
		}

		result, err := Run(runArgs)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if result.WorkbookPath != "" {
			fmt.Printf("Workbook written to %s\n", result.WorkbookPath)
		}

		if result.CSVPath != "" {
			fmt.Printf("CSV report written to %s\n", result.CSVPath)
		}
	},
}

func Run(args RunArgs) (RunResult, error) {
	ctx := context.Background()

	if err := utils.InitEnvironmentVariables(); err != nil {
		return RunResult{}, fmt.Errorf("Run: failed to load environment variables: %w", err)
	}

	provider, err := marketdata.NewProviderFromEnv()
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: %w", err)
	}

	service := marketdata.NewChainService(provider, marketdata.NewChainCache(marketdata.DefaultCacheTTL))

	symbol := optionmodels.NewStockSymbol(args.Symbol)

	// Without an expiration there is no chain to price. List the cycle so the
	// user can pick one.
	if args.Expiration == "" {
		spot, expirations, err := service.FetchExpirations(ctx, symbol)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}

		printExpirations(symbol, spot, expirations)

		return RunResult{}, nil
	}

	chain, err := service.FetchChain(ctx, symbol, optionmodels.ExpirationDate(args.Expiration))
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: %w", err)
	}

	book, err := optionmodels.ParsePositionSpecs(args.Positions)
	if err != nil {
		return RunResult{}, fmt.Errorf("Run: %w", err)
	}

	stock := optionmodels.StockPosition{
		Shares:     args.Shares,
		EntryPrice: args.StockEntry,
	}

	settlement := args.Settlement
	if settlement <= 0 {
		settlement = chain.Spot
	}

	sc := optionmodels.Scenario{
		SettlementPrice:  settlement,
		DaysToSettlement: args.Days,
		VolAdjustment:    args.VolAdj,
	}
	if err := sc.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("Run: %w", err)
	}

	printChain(chain)

	report := scenario.Evaluate(chain, book, sc, stock)
	if len(report.Lines) > 0 || stock.Shares != 0 {
		fmt.Printf("\nScenario: settlement $%.2f, %d days out, vol %+.0f%%\n", sc.SettlementPrice, sc.DaysToSettlement, sc.VolAdjustment*100)
		fmt.Println(report.String())
	}

	result := RunResult{}

	if args.Output != "" {
		f, err := export.BuildWorkbook(export.WorkbookInput{
			Chain:      chain,
			Positions:  book,
			Stock:      stock,
			Settlement: settlement,
		})
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}
		defer f.Close()

		if err := f.SaveAs(args.Output); err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to save workbook: %w", err)
		}

		result.WorkbookPath = args.Output
	}

	if args.CSVOutput != "" {
		out, err := os.Create(args.CSVOutput)
		if err != nil {
			return RunResult{}, fmt.Errorf("Run: failed to create csv: %w", err)
		}
		defer out.Close()

		if err := export.WritePnLCSV(out, report); err != nil {
			return RunResult{}, fmt.Errorf("Run: %w", err)
		}

		result.CSVPath = args.CSVOutput
	}

	return result, nil
}

func printExpirations(symbol optionmodels.StockSymbol, spot float64, expirations []optionmodels.ExpirationDate) {
	p := message.NewPrinter(language.English)
	p.Printf("%s spot: $%.2f\n\nExpirations:\n", symbol, spot)

	for _, expiration := range expirations {
		fmt.Printf("  %s\n", expiration)
	}
}

func printChain(chain *optionmodels.OptionChain) {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	p.Fprintf(display, "%s  $%.2f  expiry %s (%d days)\n", chain.Underlying, chain.Spot, chain.Expiration, chain.DaysToExpiry)

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Side", "Strike", "Bid", "Ask", "Mid", "Volume", "Open Int", "Impl Vol", "Delta"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	for _, side := range []optionmodels.OptionType{optionmodels.Call, optionmodels.Put} {
		for _, contract := range chain.Side(side) {
			table.Append([]string{
				string(side),
				p.Sprintf("$%.2f", contract.Strike),
				p.Sprintf("%.2f", contract.Bid),
				p.Sprintf("%.2f", contract.Ask),
				p.Sprintf("%.2f", contract.Mid),
				p.Sprintf("%d", contract.Volume),
				p.Sprintf("%d", contract.OpenInterest),
				p.Sprintf("%.1f%%", contract.ImpliedVol*100),
				p.Sprintf("%.3f", contract.Delta),
			})
		}
	}

	table.Render()

	fmt.Print(display.String())
}

func main() {
	runCmd.PersistentFlags().String("symbol", "", "The underlying stock ticker.")
	runCmd.PersistentFlags().String("expiration", "", "The option expiration date (YYYY-MM-DD). Omit to list available expirations.")
	runCmd.PersistentFlags().Float64("settlement", 0, "The scenario settlement price. Defaults to the current spot.")
	runCmd.PersistentFlags().Int("days", 0, "Days until scenario settlement. 0 values contracts at intrinsic.")
	runCmd.PersistentFlags().Float64("vol-adj", 0, "Fractional implied volatility adjustment, e.g. 0.1 for +10%.")
	runCmd.PersistentFlags().StringSlice("position", []string{}, "Option position as side:strike:quantity[:entry]. Repeatable.")
	runCmd.PersistentFlags().Int("shares", 0, "Stock position share count.")
	runCmd.PersistentFlags().Float64("stock-entry", 0, "Stock position entry price.")
	runCmd.PersistentFlags().String("output", "", "Path to write the xlsx workbook to.")
	runCmd.PersistentFlags().String("csv", "", "Path to write the flat P&L report CSV to.")

	runCmd.MarkPersistentFlagRequired("symbol")

	runCmd.Execute()
}
