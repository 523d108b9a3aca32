package analytics

import (
	"fmt"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

const (
	strongGrowthPct       = 10
	concerningDeclinePct  = -5
	excellentHealthScore  = 80
	urgentHealthScore     = 50
	concentrationAlertPct = 50
	lowPaymentRatePct     = 70
	vehicleOpportunityPct = 20
)

func buildExecutiveSummary(r *domain.Report) domain.ExecutiveSummary {
	s := domain.ExecutiveSummary{
		CurrentRevenue: r.Fundamentals.TotalRevenue,
		MoMGrowthPct:   r.Revenue.MoMGrowthPct,
		ProjectedTotal: r.Projection.TotalProjected,
		HealthScore:    r.HealthScore.Total,
		HealthClass:    r.HealthScore.Classification,
		Insights:       []string{},
		Alerts:         []string{},
		Opportunities:  []string{},
	}

	growth := r.Revenue.MoMGrowthPct
	switch {
	case growth > strongGrowthPct:
		s.Insights = append(s.Insights, fmt.Sprintf("strong MoM growth: %+.1f%% over the previous month", growth))
	case growth < concerningDeclinePct:
		s.Alerts = append(s.Alerts, fmt.Sprintf("concerning MoM decline: %.1f%% against the previous month", growth))
	}

	score := r.HealthScore.Total
	if score >= excellentHealthScore {
		s.Insights = append(s.Insights, fmt.Sprintf("excellent overall health: score %.0f/100", score))
	} else if score < urgentHealthScore {
		s.Alerts = append(s.Alerts, fmt.Sprintf("health requires urgent attention: score %.0f/100", score))
	}

	if r.TrendIndicators.Error == "" && r.TrendIndicators.Revenue.Trend == TrendGrowth {
		s.Insights = append(s.Insights, fmt.Sprintf("revenue trending up %.1f%% per %s bucket",
			r.TrendIndicators.Revenue.VariationPct, r.TrendIndicators.Granularity))
	}

	if r.Clients.LeaderSharePct > concentrationAlertPct && len(r.Clients.Top) > 0 {
		s.Alerts = append(s.Alerts, fmt.Sprintf("high client concentration: %s accounts for %.1f%% of revenue",
			r.Clients.Top[0].Name, r.Clients.LeaderSharePct))
	}

	if r.Fundamentals.RecordCount > 0 && r.Fundamentals.PaymentRatePct < lowPaymentRatePct {
		s.Alerts = append(s.Alerts, fmt.Sprintf("low payment rate: %.1f%% of invoices settled (%.2f outstanding)",
			r.Fundamentals.PaymentRatePct, r.Fundamentals.UnpaidValue))
	}

	if r.Projection.Success && r.Projection.TotalProjected > s.CurrentRevenue {
		s.Opportunities = append(s.Opportunities, fmt.Sprintf("positive 3-month outlook: %.2f projected against %.2f in the window",
			r.Projection.TotalProjected, s.CurrentRevenue))
	}

	if gainers := r.Vehicles.Efficiency.Gainers; len(gainers) > 0 && gainers[0].DeltaPct > vehicleOpportunityPct {
		s.Opportunities = append(s.Opportunities, fmt.Sprintf("vehicle %s grew %.1f%% in the last period; consider replicating its routes",
			gainers[0].Plate, gainers[0].DeltaPct))
	}

	return s
}
