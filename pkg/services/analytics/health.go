package analytics

import (
	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthRegular   = "regular"
	HealthWeak      = "weak"
	HealthCritical  = "critical"
)

var healthRecommendations = map[string]string{
	HealthExcellent: "Maintain current practices and explore expansion into new clients and routes.",
	HealthGood:      "Solid position; focus on improving collection and process completion to reach excellence.",
	HealthRegular:   "Review billing follow-up and client diversification; several indicators are below target.",
	HealthWeak:      "Prioritize collections and process completion; revenue concentration and growth need attention.",
	HealthCritical:  "Immediate action required: review pricing, collections and client base.",
}

// tier awards points when a value reaches min. Tiers are checked in order.
type tier struct {
	min    float64
	points float64
}

type tierTable struct {
	max      float64
	tiers    []tier
	fallback float64
}

func (t tierTable) score(value float64) domain.ScoreComponent {
	earned := t.fallback
	for _, tr := range t.tiers {
		if value >= tr.min {
			earned = tr.points
			break
		}
	}
	return domain.ScoreComponent{
		Value:  round2(value),
		Earned: earned,
		Max:    t.max,
		Pct:    round2(percent(earned, t.max)),
	}
}

var (
	revenueTiers = tierTable{
		max:      25,
		tiers:    []tier{{1_000_000, 25}, {500_000, 20}, {100_000, 15}, {50_000, 10}},
		fallback: 5,
	}
	paymentRateTiers = tierTable{
		max:      25,
		tiers:    []tier{{90, 25}, {80, 20}, {70, 15}, {60, 10}},
		fallback: 5,
	}
	diversificationTiers = tierTable{
		max:      20,
		tiers:    []tier{{50, 20}, {30, 15}, {20, 10}, {10, 7}},
		fallback: 3,
	}
	completionTiers = tierTable{
		max:      15,
		tiers:    []tier{{95, 15}, {85, 12}, {75, 9}, {65, 6}},
		fallback: 3,
	}
	growthTiers = tierTable{
		max:      15,
		tiers:    []tier{{10, 15}, {5, 12}, {0, 8}, {-5, 5}},
		fallback: 2,
	}
)

func classifyHealth(total float64) string {
	switch {
	case total >= 85:
		return HealthExcellent
	case total >= 70:
		return HealthGood
	case total >= 55:
		return HealthRegular
	case total >= 40:
		return HealthWeak
	default:
		return HealthCritical
	}
}

func emptyHealthScore() domain.HealthScore {
	return domain.HealthScore{
		Classification: HealthCritical,
		Recommendation: healthRecommendations[HealthCritical],
	}
}

func scoreHealth(f domain.Fundamentals, r domain.RevenueAnalysis) domain.HealthScore {
	components := domain.HealthComponents{
		Revenue:         revenueTiers.score(f.TotalRevenue),
		PaymentRate:     paymentRateTiers.score(f.PaymentRatePct),
		Diversification: diversificationTiers.score(float64(f.UniqueClients)),
		CompletionRate:  completionTiers.score(f.CompletionRatePct),
		Growth:          growthTiers.score(r.MoMGrowthPct),
	}

	total := components.Revenue.Earned +
		components.PaymentRate.Earned +
		components.Diversification.Earned +
		components.CompletionRate.Earned +
		components.Growth.Earned
	total = clamp(total, 0, 100)

	class := classifyHealth(total)
	return domain.HealthScore{
		Total:          total,
		Classification: class,
		Recommendation: healthRecommendations[class],
		Components:     components,
	}
}
