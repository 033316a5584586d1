package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

// WritePnLCSV streams the per-contract lines of an evaluated report as CSV.
// Totals are recomputable from the lines and are not included.
func WritePnLCSV(w io.Writer, report optionmodels.PnLReport) error {
	if err := gocsv.Marshal(report.Lines, w); err != nil {
		return fmt.Errorf("WritePnLCSV: marshal report lines: %w", err)
	}

	return nil
}
