package analytics

import (
	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

const (
	ComparisonExcellent = "excellent"
	ComparisonGood      = "good"
	ComparisonStable    = "stable"
	ComparisonDecline   = "decline"

	OverallPositive = "positive"
	OverallMixed    = "mixed"
	OverallNegative = "negative"
)

// Period comparison weights.
const (
	comparisonWeightRevenue = 0.4
	comparisonWeightTrips   = 0.3
	comparisonWeightTicket  = 0.2
	comparisonWeightClients = 0.1
)

func periodMetrics(f Frame) domain.PeriodMetrics {
	fund := computeFundamentals(f.Records)
	return domain.PeriodMetrics{
		Start:         f.Start,
		End:           f.End,
		Revenue:       fund.TotalRevenue,
		Trips:         fund.RecordCount,
		TicketMean:    fund.TicketMean,
		UniqueClients: fund.UniqueClients,
	}
}

func classifyComparison(score float64) string {
	switch {
	case score >= 15:
		return ComparisonExcellent
	case score >= 5:
		return ComparisonGood
	case score >= -5:
		return ComparisonStable
	default:
		return ComparisonDecline
	}
}

func comparePeriod(current, base domain.PeriodMetrics) domain.PeriodVariation {
	v := domain.PeriodVariation{
		RevenuePct:       variationPct(current.Revenue, base.Revenue),
		TripsPct:         variationPct(float64(current.Trips), float64(base.Trips)),
		TicketMeanPct:    variationPct(current.TicketMean, base.TicketMean),
		UniqueClientsPct: variationPct(float64(current.UniqueClients), float64(base.UniqueClients)),
	}
	score := comparisonWeightRevenue*v.RevenuePct +
		comparisonWeightTrips*v.TripsPct +
		comparisonWeightTicket*v.TicketMeanPct +
		comparisonWeightClients*v.UniqueClientsPct

	v.RevenuePct = round2(v.RevenuePct)
	v.TripsPct = round2(v.TripsPct)
	v.TicketMeanPct = round2(v.TicketMeanPct)
	v.UniqueClientsPct = round2(v.UniqueClientsPct)
	v.Score = round2(score)
	v.Classification = classifyComparison(v.Score)
	return v
}

func compareTemporal(current, twoMonthsAgo, yearAgo Frame) domain.TemporalComparison {
	out := domain.TemporalComparison{
		Current:      periodMetrics(current),
		TwoMonthsAgo: periodMetrics(twoMonthsAgo),
		YearAgo:      periodMetrics(yearAgo),
	}
	out.VsTwoMonthsAgo = comparePeriod(out.Current, out.TwoMonthsAgo)
	out.VsYearAgo = comparePeriod(out.Current, out.YearAgo)

	positives := 0
	if out.VsTwoMonthsAgo.Score > 0 {
		positives++
	}
	if out.VsYearAgo.Score > 0 {
		positives++
	}
	switch positives {
	case 2:
		out.OverallTrend = OverallPositive
	case 1:
		out.OverallTrend = OverallMixed
	default:
		out.OverallTrend = OverallNegative
	}
	return out
}
