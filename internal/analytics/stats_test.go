package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, 1.4142135623730951, StdDev([]float64{2, 4}), 1e-9)
	assert.Equal(t, 0.0, StdDev([]float64{5}), "single sample has no spread")
	assert.Equal(t, 0.0, StdDev(nil))
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3, 1, 2})
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 3.0, max)

	min, max = MinMax(nil)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 0.0, max)
}

func TestQuantile(t *testing.T) {
	data := []float64{3, 1, 2}
	assert.Equal(t, 2.0, Quantile(0.5, data))
	assert.Equal(t, 3.0, Quantile(0.9, data))
	assert.Equal(t, []float64{3, 1, 2}, data, "input order untouched")
	assert.Equal(t, 0.0, Quantile(0.5, nil))
}

func TestSma(t *testing.T) {
	out := Sma([]float64{1, 2, 3, 4}, 2)
	assert.InDeltaSlice(t, []float64{0, 1.5, 2.5, 3.5}, out, 1e-9)

	assert.Nil(t, Sma([]float64{1}, 2), "window longer than series")
	assert.Nil(t, Sma([]float64{1, 2}, 0))
}

func TestEma(t *testing.T) {
	out := Ema([]float64{1, 2, 3, 4}, 2)
	assert.InDeltaSlice(t, []float64{0, 1.5, 2.5, 3.5}, out, 1e-9)

	assert.Nil(t, Ema(nil, 2))
}
