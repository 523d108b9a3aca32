package analytics

import (
	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

// NoData is the report error for a window without records.
const NoData = "no data"

func emptyRevenue() domain.RevenueAnalysis {
	return domain.RevenueAnalysis{MonthlySeries: []domain.MonthlyPoint{}}
}

func emptyClients() domain.ClientAnalysis {
	return domain.ClientAnalysis{Top: []domain.ClientStat{}}
}

func emptyTrend(windowDays int) domain.TrendIndicators {
	marker := domain.TrendResult{Trend: InsufficientData}
	return domain.TrendIndicators{
		Granularity: granularityFor(windowDays),
		Series:      []domain.TrendBucket{},
		Revenue:     marker,
		Count:       marker,
		TicketMean:  marker,
	}
}

func emptySeasonalProfile() domain.SeasonalProfile {
	return domain.SeasonalProfile{
		Distribution: []domain.DistributionPoint{},
		Intensity:    InsufficientData,
	}
}

func emptySeasonality() domain.Seasonality {
	return domain.Seasonality{
		Monthly:    emptySeasonalProfile(),
		Weekday:    emptySeasonalProfile(),
		DayOfMonth: []domain.DistributionPoint{},
	}
}

func emptyEfficiency() domain.EfficiencyAnalysis {
	return domain.EfficiencyAnalysis{
		Ranking: []domain.VehicleEfficiency{},
		Gainers: []domain.VehicleEfficiency{},
		Losers:  []domain.VehicleEfficiency{},
	}
}

func emptyVehicles() domain.VehicleAnalysis {
	return domain.VehicleAnalysis{
		Ranking:    []domain.VehicleStat{},
		Fleet:      summarizeFleet(nil),
		Efficiency: emptyEfficiency(),
	}
}

func emptyComparison() domain.TemporalComparison {
	return domain.TemporalComparison{OverallTrend: InsufficientData}
}

// emptyReport is the failed-report shape: every section present, numerics zero, lists empty.
func emptyReport(r *domain.Report, message string) *domain.Report {
	r.Success = false
	r.Error = message
	r.Fundamentals = domain.Fundamentals{}
	r.Revenue = emptyRevenue()
	r.Clients = emptyClients()
	r.Projection = emptyProjection()
	r.TemporalComparison = emptyComparison()
	r.Vehicles = emptyVehicles()
	r.TrendIndicators = emptyTrend(r.Window.Days)
	r.Seasonality = emptySeasonality()
	r.HealthScore = emptyHealthScore()
	r.Charts = emptyCharts()
	r.ExecutiveSummary = emptyExecutiveSummary(r.HealthScore)
	return r
}

// emptyExecutiveSummary reports the zeroed health score and no findings.
func emptyExecutiveSummary(h domain.HealthScore) domain.ExecutiveSummary {
	return domain.ExecutiveSummary{
		HealthScore:   h.Total,
		HealthClass:   h.Classification,
		Insights:      []string{},
		Alerts:        []string{},
		Opportunities: []string{},
	}
}
