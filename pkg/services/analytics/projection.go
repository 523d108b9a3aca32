package analytics

import (
	"math"
	"time"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

const (
	ProjectionMethodology = "linear regression + historical seasonality"

	minProjectionMonths = 3
	minConfidence       = 0.3
	maxConfidence       = 0.95
)

func emptyProjection() domain.Projection {
	return domain.Projection{
		Projections: []domain.MonthProjection{},
		Methodology: ProjectionMethodology,
	}
}

// project extends the monthly revenue trend over the next horizon months, scaling each
// month by how its calendar month historically compares with the overall mean.
func project(records []domain.Record, today time.Time, horizon int) domain.Projection {
	series := monthlySeries(records)
	out := emptyProjection()
	out.MonthsUsed = len(series)

	if len(series) < minProjectionMonths {
		out.Error = InsufficientData
		return out
	}

	totals := make([]float64, len(series))
	byCalendarMonth := make(map[time.Month][]float64)
	for i, p := range series {
		totals[i] = p.Total
		byCalendarMonth[p.Start.Month()] = append(byCalendarMonth[p.Start.Month()], p.Total)
	}

	fit := fitLinear(totals)
	n := len(totals)
	confidence := clamp(fit.RSquared, minConfidence, maxConfidence)
	trendPct := percent(fit.Slope, fit.Mean)

	var totalProjected, totalMin, totalMax float64
	anchor := monthStart(today)
	for j := 1; j <= horizon; j++ {
		target := anchor.AddDate(0, j, 0)
		trendValue := fit.Value(float64(n + j - 1))

		factor := 1.0
		if hist, ok := byCalendarMonth[target.Month()]; ok && fit.Mean > 0 {
			factor = mean(hist) / fit.Mean
		}

		projected := math.Max(0, trendValue*factor)
		margin := projected * (1 - confidence) * 0.5

		mp := domain.MonthProjection{
			Month:          monthKey(target),
			MonthLabel:     monthLabel(target),
			TrendValue:     round2(trendValue),
			SeasonalFactor: round4(factor),
			Projected:      round2(projected),
			Min:            round2(projected - margin),
			Max:            round2(projected + margin),
			ConfidencePct:  round2(100 * confidence),
			TrendPct:       round2(trendPct),
		}
		totalProjected += mp.Projected
		totalMin += mp.Min
		totalMax += mp.Max
		out.Projections = append(out.Projections, mp)
	}

	out.Success = true
	out.TotalProjected = round2(totalProjected)
	out.TotalMin = round2(totalMin)
	out.TotalMax = round2(totalMax)
	out.HistoricalMean = round2(fit.Mean)
	out.Slope = round4(fit.Slope)
	out.Intercept = round4(fit.Intercept)
	out.RSquared = round4(fit.RSquared)
	return out
}
