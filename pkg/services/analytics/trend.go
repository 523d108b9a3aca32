package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

const (
	GranularityDaily   = "daily"
	GranularityWeekly  = "weekly"
	GranularityMonthly = "monthly"

	TrendGrowth  = "growth"
	TrendDecline = "decline"
	TrendStable  = "stable"

	// minTrendBuckets is the fewest buckets a regression is fitted on.
	minTrendBuckets = 3
	// stableCorrelation is the |r| below which a series is considered flat.
	stableCorrelation = 0.3
)

// granularityFor picks the bucket size from the window length.
func granularityFor(windowDays int) string {
	switch {
	case windowDays <= 15:
		return GranularityDaily
	case windowDays <= 60:
		return GranularityWeekly
	default:
		return GranularityMonthly
	}
}

func bucketStart(t time.Time, granularity string) time.Time {
	switch granularity {
	case GranularityDaily:
		return domain.Date(t)
	case GranularityWeekly:
		return domain.Date(t).AddDate(0, 0, -weekdayIndex(t))
	default:
		return monthStart(t)
	}
}

func bucketize(records []domain.Record, granularity string) []domain.TrendBucket {
	buckets := make(map[time.Time]*domain.TrendBucket)
	for _, r := range records {
		key := bucketStart(r.IssuedOn, granularity)
		b, ok := buckets[key]
		if !ok {
			b = &domain.TrendBucket{Start: key}
			buckets[key] = b
		}
		b.Revenue += r.Amount
		b.Count++
	}

	series := make([]domain.TrendBucket, 0, len(buckets))
	for _, b := range buckets {
		b.TicketMean = round2(ratio(b.Revenue, float64(b.Count)))
		b.Revenue = round2(b.Revenue)
		series = append(series, *b)
	}
	slices.SortFunc(series, func(a, b domain.TrendBucket) int {
		return a.Start.Compare(b.Start)
	})
	return series
}

func analyzeTrend(records []domain.Record, windowDays int) domain.TrendIndicators {
	granularity := granularityFor(windowDays)
	series := bucketize(records, granularity)

	out := domain.TrendIndicators{
		Granularity: granularity,
		Buckets:     len(series),
		Series:      series,
	}

	if len(series) < minTrendBuckets {
		out.Error = InsufficientData
		out.Revenue = domain.TrendResult{Trend: InsufficientData}
		out.Count = domain.TrendResult{Trend: InsufficientData}
		out.TicketMean = domain.TrendResult{Trend: InsufficientData}
		return out
	}

	revenue := make([]float64, len(series))
	counts := make([]float64, len(series))
	tickets := make([]float64, len(series))
	for i, b := range series {
		revenue[i] = b.Revenue
		counts[i] = float64(b.Count)
		tickets[i] = b.TicketMean
	}

	out.Revenue = fitTrend(revenue)
	out.Count = fitTrend(counts)
	out.TicketMean = fitTrend(tickets)
	return out
}

func fitTrend(ys []float64) domain.TrendResult {
	fit := fitLinear(ys)

	trend := TrendStable
	if math.Abs(fit.R) >= stableCorrelation {
		if fit.Slope > 0 {
			trend = TrendGrowth
		} else {
			trend = TrendDecline
		}
	}

	return domain.TrendResult{
		Slope:        round4(fit.Slope),
		Intercept:    round4(fit.Intercept),
		R:            round4(fit.R),
		RSquared:     round4(fit.RSquared),
		Confidence:   round4(fit.RSquared),
		VariationPct: round2(percent(fit.Slope, fit.Mean)),
		Mean:         round2(fit.Mean),
		Trend:        trend,
	}
}
