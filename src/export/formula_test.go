package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

func TestFormulaBuilder(t *testing.T) {
	var b FormulaBuilder

	t.Run("value at expiry references the shared settlement cell", func(t *testing.T) {
		assert.Equal(t, "=MAX($H$2-A6,0)", b.ValueAtExpiry(6, optionmodels.Call))
		assert.Equal(t, "=MAX(A6-$H$2,0)", b.ValueAtExpiry(6, optionmodels.Put))
		assert.Equal(t, "=MAX($H$2-A42,0)", b.ValueAtExpiry(42, optionmodels.Call))
	})

	t.Run("premium cells split by position sign", func(t *testing.T) {
		assert.Equal(t, "=IF(J6>0,K6*J6*100,0)", b.PremiumPaid(6))
		assert.Equal(t, "=IF(J6<0,K6*-J6*100,0)", b.PremiumReceived(6))
		assert.Equal(t, "=IF(J17>0,K17*J17*100,0)", b.PremiumPaid(17))
	})

	t.Run("payout and pnl", func(t *testing.T) {
		assert.Equal(t, "=N6*J6*100", b.Payout(6))
		assert.Equal(t, "=O6-L6+M6", b.PnL(6))
		assert.Equal(t, "=O23-L23+M23", b.PnL(23))
	})

	t.Run("summary cells", func(t *testing.T) {
		assert.Equal(t, "=SUM(L6:L25)", b.SumColumn(colPremiumPaid, 25))
		assert.Equal(t, "=SUM(M6:M25)", b.SumColumn(colPremiumReceived, 25))
		assert.Equal(t, "=SUM(O6:O25)", b.SumColumn(colPayout, 25))
		assert.Equal(t, "=SUM(P6:P25)", b.SumColumn(colPnL, 25))
		assert.Equal(t, "=I3+K3", b.TotalPnL())
	})

	t.Run("stock cells", func(t *testing.T) {
		assert.Equal(t, "=(H2-K2)*J2", b.StockPnL())
		assert.Equal(t, "=L2", b.StockPnLRef())
	})
}
