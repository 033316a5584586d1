package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jbrewer4/options-pnl/src/optionmodels"
)

func TestPrice(t *testing.T) {
	t.Run("reference values at S=100 K=100 vol=0.2 T=1", func(t *testing.T) {
		call := Price(100, 100, 1, 0.2, optionmodels.Call)
		put := Price(100, 100, 1, 0.2, optionmodels.Put)

		assert.InDelta(t, 10.186110554829753, call, 1e-9)
		assert.InDelta(t, 5.785858738139751, put, 1e-9)
	})

	t.Run("put-call parity", func(t *testing.T) {
		call := Price(100, 100, 1, 0.2, optionmodels.Call)
		put := Price(100, 100, 1, 0.2, optionmodels.Put)

		// C - P = S - K*e^(-rT)
		assert.InDelta(t, 4.400251816690002, call-put, 1e-9)
	})

	t.Run("expired option returns exact intrinsic", func(t *testing.T) {
		assert.Equal(t, 10.0, Price(110, 100, 0, 0.2, optionmodels.Call))
		assert.Equal(t, 0.0, Price(90, 100, 0, 0.2, optionmodels.Call))
		assert.Equal(t, 10.0, Price(90, 100, -0.5, 0.2, optionmodels.Put))
	})

	t.Run("degenerate volatility collapses to intrinsic", func(t *testing.T) {
		assert.Equal(t, 5.0, Price(105, 100, 0.25, 0, optionmodels.Call))
		assert.Equal(t, 0.0, Price(105, 100, 0.25, 0, optionmodels.Put))
	})

	t.Run("never negative", func(t *testing.T) {
		assert.GreaterOrEqual(t, Price(50, 200, 0.01, 0.05, optionmodels.Call), 0.0)
		assert.GreaterOrEqual(t, Price(500, 10, 0.01, 0.05, optionmodels.Put), 0.0)
	})
}

func TestDelta(t *testing.T) {
	t.Run("reference values", func(t *testing.T) {
		assert.InDelta(t, 0.627409464153284, Delta(100, 100, 1, 0.2, optionmodels.Call), 1e-9)
		assert.InDelta(t, -0.372590535846716, Delta(100, 100, 1, 0.2, optionmodels.Put), 1e-9)
	})

	t.Run("bounded for valid inputs", func(t *testing.T) {
		spots := []float64{1, 25, 99.5, 100, 101, 400, 10000}
		strikes := []float64{1, 50, 100, 150, 5000}
		times := []float64{0.001, 0.1, 1, 3}
		vols := []float64{0.01, 0.2, 0.8, 2.5}

		for _, s := range spots {
			for _, k := range strikes {
				for _, tt := range times {
					for _, v := range vols {
						call := Delta(s, k, tt, v, optionmodels.Call)
						put := Delta(s, k, tt, v, optionmodels.Put)

						assert.GreaterOrEqual(t, call, 0.0)
						assert.LessOrEqual(t, call, 1.0)
						assert.GreaterOrEqual(t, put, -1.0)
						assert.LessOrEqual(t, put, 0.0)
					}
				}
			}
		}
	})

	t.Run("degenerate inputs fall back to sign default", func(t *testing.T) {
		assert.Equal(t, 0.5, Delta(0, 100, 1, 0.2, optionmodels.Call))
		assert.Equal(t, -0.5, Delta(0, 100, 1, 0.2, optionmodels.Put))
		assert.Equal(t, 0.5, Delta(100, 100, 0, 0.2, optionmodels.Call))
		assert.Equal(t, 0.5, Delta(100, 100, 1, 0, optionmodels.Call))
		assert.Equal(t, -0.5, Delta(100, 0, 1, 0.2, optionmodels.Put))
	})
}

func TestIntrinsic(t *testing.T) {
	t.Run("call", func(t *testing.T) {
		assert.Equal(t, 10.0, Intrinsic(110, 100, optionmodels.Call))
		assert.Equal(t, 0.0, Intrinsic(90, 100, optionmodels.Call))
	})

	t.Run("put", func(t *testing.T) {
		assert.Equal(t, 10.0, Intrinsic(90, 100, optionmodels.Put))
		assert.Equal(t, 0.0, Intrinsic(110, 100, optionmodels.Put))
	})

	t.Run("settlement at the strike is worth exactly zero on both sides", func(t *testing.T) {
		assert.Equal(t, 0.0, Intrinsic(100, 100, optionmodels.Call))
		assert.Equal(t, 0.0, Intrinsic(100, 100, optionmodels.Put))
	})
}
