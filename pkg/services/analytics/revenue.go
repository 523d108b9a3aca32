package analytics

import (
	"slices"
	"time"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

// monthlySeries sums amounts per (year, month) of issue, oldest month first.
// Only months holding at least one record appear.
func monthlySeries(records []domain.Record) []domain.MonthlyPoint {
	type bucket struct {
		start time.Time
		total float64
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, r := range records {
		key := monthStart(r.IssuedOn)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: key}
			buckets[key] = b
		}
		b.total += r.Amount
		b.count++
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	slices.SortFunc(ordered, func(a, b *bucket) int {
		return a.start.Compare(b.start)
	})

	series := make([]domain.MonthlyPoint, 0, len(ordered))
	for _, b := range ordered {
		series = append(series, domain.MonthlyPoint{
			Start: b.start,
			Month: monthKey(b.start),
			Label: monthLabel(b.start),
			Total: round2(b.total),
			Count: b.count,
		})
	}
	return series
}

func analyzeRevenue(records []domain.Record) domain.RevenueAnalysis {
	series := monthlySeries(records)

	totals := make([]float64, len(series))
	for i, p := range series {
		totals[i] = p.Total
	}

	out := domain.RevenueAnalysis{
		MonthlySeries: series,
		MonthlyMean:   round2(mean(totals)),
	}

	if n := len(totals); n > 0 {
		out.CurrentMonthRevenue = totals[n-1]
		if n >= 2 {
			prev := totals[n-2]
			out.PreviousMonthRevenue = prev
			if prev != 0 {
				out.MoMGrowthPct = round2(100 * (totals[n-1] - prev) / prev)
			}
		}
	}
	return out
}
