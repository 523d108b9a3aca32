package analytics

import (
	"strconv"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

const (
	IntensityLow      = "low"
	IntensityModerate = "moderate"
	IntensityHigh     = "high"
)

func intensityFor(cv float64) string {
	switch {
	case cv < 20:
		return IntensityLow
	case cv < 40:
		return IntensityModerate
	default:
		return IntensityHigh
	}
}

func analyzeSeasonality(records []domain.Record) domain.Seasonality {
	var (
		monthly    = make([]domain.DistributionPoint, 12)
		weekday    = make([]domain.DistributionPoint, 7)
		dayOfMonth = make([]domain.DistributionPoint, 31)
	)
	for i := range monthly {
		monthly[i] = domain.DistributionPoint{Index: i + 1, Label: monthNames[i]}
	}
	for i := range weekday {
		weekday[i] = domain.DistributionPoint{Index: i, Label: weekdayNames[i]}
	}
	for i := range dayOfMonth {
		dayOfMonth[i] = domain.DistributionPoint{Index: i + 1, Label: strconv.Itoa(i + 1)}
	}

	for _, r := range records {
		m := &monthly[r.IssuedOn.Month()-1]
		m.Total += r.Amount
		m.Count++

		w := &weekday[weekdayIndex(r.IssuedOn)]
		w.Total += r.Amount
		w.Count++

		d := &dayOfMonth[r.IssuedOn.Day()-1]
		d.Total += r.Amount
		d.Count++
	}

	roundTotals(monthly)
	roundTotals(weekday)
	roundTotals(dayOfMonth)

	return domain.Seasonality{
		Monthly:    seasonalProfile(monthly),
		Weekday:    seasonalProfile(weekday),
		DayOfMonth: dayOfMonth,
	}
}

func roundTotals(points []domain.DistributionPoint) {
	for i := range points {
		points[i].Total = round2(points[i].Total)
	}
}

// seasonalProfile summarizes the buckets that hold records; empty buckets stay in the
// distribution but do not count towards the statistics.
func seasonalProfile(points []domain.DistributionPoint) domain.SeasonalProfile {
	profile := domain.SeasonalProfile{
		Distribution: points,
		Intensity:    InsufficientData,
	}

	var (
		totals []float64
		strong *domain.DistributionPoint
		weak   *domain.DistributionPoint
	)
	for i := range points {
		p := &points[i]
		if p.Count == 0 {
			continue
		}
		totals = append(totals, p.Total)
		if strong == nil || p.Total > strong.Total {
			strong = p
		}
		if weak == nil || p.Total < weak.Total {
			weak = p
		}
	}
	if len(totals) == 0 {
		return profile
	}

	avg := mean(totals)
	sd := sampleStdDev(totals)
	cv := percent(sd, avg)

	profile.Strongest = strong.Label
	profile.StrongestIdx = strong.Index
	profile.Weakest = weak.Label
	profile.WeakestIdx = weak.Index
	profile.Mean = round2(avg)
	profile.StdDev = round2(sd)
	profile.CVPct = round2(cv)
	profile.Intensity = intensityFor(cv)
	return profile
}
