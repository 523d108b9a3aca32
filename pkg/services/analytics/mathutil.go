package analytics

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

func round2(v float64) float64 {
	return roundTo(v, 2)
}

func round4(v float64) float64 {
	return roundTo(v, 4)
}

func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(num, den float64) float64 {
	return 100 * ratio(num, den)
}

// variationPct is the percentage change from base to current. A zero base yields 100 when
// current is positive and 0 otherwise.
func variationPct(current, base float64) float64 {
	if base == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return 100 * (current - base) / base
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// sampleStdDev is the unbiased standard deviation; fewer than two values yield 0.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd := stat.StdDev(xs, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// linearFit is an ordinary least squares fit of ys against their index 0..n-1.
type linearFit struct {
	Slope     float64
	Intercept float64
	R         float64
	RSquared  float64
	Mean      float64
}

func fitLinear(ys []float64) linearFit {
	if len(ys) < 2 {
		return linearFit{Mean: mean(ys)}
	}

	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := linearFit{
		Slope:     slope,
		Intercept: intercept,
		Mean:      mean(ys),
	}

	// A flat series has no defined correlation.
	if stat.Variance(ys, nil) > 0 {
		r := stat.Correlation(xs, ys, nil)
		if !math.IsNaN(r) {
			fit.R = r
			fit.RSquared = r * r
		}
	}
	return fit
}

// Value evaluates the fitted line at x.
func (f linearFit) Value(x float64) float64 {
	return f.Slope*x + f.Intercept
}
