package analytics

import (
	"sort"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of
// float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// MinMax returns the smallest and largest values in data.
func MinMax(data []float64) (min, max float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// Quantile returns the pth quantile (0-1) of data.
func Quantile(p float64, data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Sma returns the simple moving average of data over window. The
// first window-1 positions are zero, matching the underlying library.
func Sma(data []float64, window int) []float64 {
	if window <= 0 || len(data) < window {
		return nil
	}
	return talib.Sma(data, window)
}

// Ema returns the exponential moving average of data over window.
func Ema(data []float64, window int) []float64 {
	if window <= 0 || len(data) < window {
		return nil
	}
	return talib.Ema(data, window)
}
