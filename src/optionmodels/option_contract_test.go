package optionmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMidPrice(t *testing.T) {
	t.Run("averages bid and ask when both quoted", func(t *testing.T) {
		assert.Equal(t, 2.5, MidPrice(2, 3, 3.25))
	})

	t.Run("falls back to last when either side is empty", func(t *testing.T) {
		assert.Equal(t, 3.25, MidPrice(0, 0, 3.25))
		assert.Equal(t, 3.25, MidPrice(2, 0, 3.25))
		assert.Equal(t, 3.25, MidPrice(0, 3, 3.25))
	})

	t.Run("no quotes at all is zero", func(t *testing.T) {
		assert.Zero(t, MidPrice(0, 0, 0))
	})
}

func TestHasKnownIV(t *testing.T) {
	known := OptionContract{ImpliedVol: 0.25}
	unknown := OptionContract{}

	assert.True(t, known.HasKnownIV())
	assert.False(t, unknown.HasKnownIV())
}
