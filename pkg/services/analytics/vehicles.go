package analytics

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

const (
	ClassExcellent = "excellent"
	ClassGood      = "good"
	ClassRegular   = "regular"
	ClassLow       = "low"
)

// Composite vehicle score weights.
const (
	vehicleWeightRevenue    = 0.4
	vehicleWeightTrips      = 0.3
	vehicleWeightTicket     = 0.2
	vehicleWeightCompletion = 0.1
)

type vehicleAggregate struct {
	plate        string
	revenue      float64
	trips        int
	paid         int
	complete     int
	earliest     time.Time
	clients      map[string]struct{}
	origins      map[string]struct{}
	destinations map[string]struct{}
}

func classifyVehicle(score float64) string {
	switch {
	case score >= 80:
		return ClassExcellent
	case score >= 60:
		return ClassGood
	case score >= 40:
		return ClassRegular
	default:
		return ClassLow
	}
}

// rankVehicles builds the per-vehicle ranking, sorted by revenue descending. Records with
// a zero amount are ignored.
func rankVehicles(records []domain.Record, today time.Time) []domain.VehicleStat {
	byPlate := make(map[string]*vehicleAggregate)
	for _, r := range records {
		if r.Amount <= 0 {
			continue
		}
		plate := r.Plate()
		agg, ok := byPlate[plate]
		if !ok {
			agg = &vehicleAggregate{
				plate:        plate,
				earliest:     r.IssuedOn,
				clients:      make(map[string]struct{}),
				origins:      make(map[string]struct{}),
				destinations: make(map[string]struct{}),
			}
			byPlate[plate] = agg
		}
		agg.revenue += r.Amount
		agg.trips++
		if r.IsPaid() {
			agg.paid++
		}
		if r.ProcessComplete() {
			agg.complete++
		}
		if r.IssuedOn.Before(agg.earliest) {
			agg.earliest = r.IssuedOn
		}
		if r.ClientName != "" {
			agg.clients[r.ClientName] = struct{}{}
		}
		if r.OriginCity != nil {
			agg.origins[*r.OriginCity] = struct{}{}
		}
		if r.DestinationCity != nil {
			agg.destinations[*r.DestinationCity] = struct{}{}
		}
	}

	stats := make([]domain.VehicleStat, 0, len(byPlate))
	var maxRevenue, maxTrips, maxTicket float64
	for _, agg := range byPlate {
		ticket := ratio(agg.revenue, float64(agg.trips))
		maxRevenue = math.Max(maxRevenue, agg.revenue)
		maxTrips = math.Max(maxTrips, float64(agg.trips))
		maxTicket = math.Max(maxTicket, ticket)

		days := today.Sub(agg.earliest).Hours() / 24
		if days < 1 {
			days = 1
		}

		stats = append(stats, domain.VehicleStat{
			Plate:                agg.plate,
			TotalRevenue:         agg.revenue,
			TripCount:            agg.trips,
			TicketMean:           ticket,
			UniqueClients:        len(agg.clients),
			UniqueOrigins:        len(agg.origins),
			UniqueDestinations:   len(agg.destinations),
			PaidCount:            agg.paid,
			CompleteProcessCount: agg.complete,
			SettleRatePct:        percent(float64(agg.paid), float64(agg.trips)),
			CompletionRatePct:    percent(float64(agg.complete), float64(agg.trips)),
			RevenuePerDay:        agg.revenue / days,
		})
	}

	for i := range stats {
		s := &stats[i]
		score := vehicleWeightRevenue*percent(s.TotalRevenue, maxRevenue) +
			vehicleWeightTrips*percent(float64(s.TripCount), maxTrips) +
			vehicleWeightTicket*percent(s.TicketMean, maxTicket) +
			vehicleWeightCompletion*s.CompletionRatePct
		s.Score = round2(clamp(score, 0, 100))
		s.Classification = classifyVehicle(s.Score)
	}

	slices.SortFunc(stats, func(a, b domain.VehicleStat) int {
		switch {
		case a.TotalRevenue > b.TotalRevenue:
			return -1
		case a.TotalRevenue < b.TotalRevenue:
			return 1
		case a.TripCount != b.TripCount:
			return b.TripCount - a.TripCount
		}
		return strings.Compare(a.Plate, b.Plate)
	})

	for i := range stats {
		s := &stats[i]
		s.Rank = i + 1
		s.TotalRevenue = round2(s.TotalRevenue)
		s.TicketMean = round2(s.TicketMean)
		s.SettleRatePct = round2(s.SettleRatePct)
		s.CompletionRatePct = round2(s.CompletionRatePct)
		s.RevenuePerDay = round2(s.RevenuePerDay)
	}
	return stats
}

func newClassDistribution() map[string]int {
	return map[string]int{
		ClassExcellent: 0,
		ClassGood:      0,
		ClassRegular:   0,
		ClassLow:       0,
	}
}

// summarizeFleet aggregates a ranking that is already sorted by revenue descending.
func summarizeFleet(ranking []domain.VehicleStat) domain.FleetSummary {
	fleet := domain.FleetSummary{
		VehicleCount:      len(ranking),
		ClassDistribution: newClassDistribution(),
	}
	if len(ranking) == 0 {
		return fleet
	}

	revenues := make([]float64, len(ranking))
	total := 0.0
	for i, v := range ranking {
		revenues[i] = v.TotalRevenue
		total += v.TotalRevenue
		fleet.ClassDistribution[v.Classification]++
	}

	top := int(math.Ceil(0.2 * float64(len(ranking))))
	topRevenue := 0.0
	for _, v := range ranking[:top] {
		topRevenue += v.TotalRevenue
	}

	fleet.TotalRevenue = round2(total)
	fleet.MeanRevenue = round2(mean(revenues))
	fleet.MedianRevenue = round2(median(revenues))
	fleet.MaxRevenue = slices.Max(revenues)
	fleet.MinRevenue = slices.Min(revenues)
	fleet.Top20PctShare = round2(percent(topRevenue, total))
	return fleet
}

type efficiencyAggregate struct {
	recentRevenue, priorRevenue float64
	recentTrips, priorTrips     int
}

// analyzeEfficiency compares each vehicle's revenue issued on or after split with its
// revenue issued before split.
func analyzeEfficiency(records []domain.Record, split time.Time, shortlist int) domain.EfficiencyAnalysis {
	byPlate := make(map[string]*efficiencyAggregate)
	for _, r := range records {
		if r.Amount <= 0 {
			continue
		}
		agg, ok := byPlate[r.Plate()]
		if !ok {
			agg = &efficiencyAggregate{}
			byPlate[r.Plate()] = agg
		}
		if r.IssuedOn.Before(split) {
			agg.priorRevenue += r.Amount
			agg.priorTrips++
		} else {
			agg.recentRevenue += r.Amount
			agg.recentTrips++
		}
	}

	ranking := make([]domain.VehicleEfficiency, 0, len(byPlate))
	for plate, agg := range byPlate {
		ranking = append(ranking, domain.VehicleEfficiency{
			Plate:         plate,
			RecentRevenue: round2(agg.recentRevenue),
			PriorRevenue:  round2(agg.priorRevenue),
			RecentTrips:   agg.recentTrips,
			PriorTrips:    agg.priorTrips,
			DeltaPct:      round2(variationPct(agg.recentRevenue, agg.priorRevenue)),
		})
	}
	slices.SortFunc(ranking, func(a, b domain.VehicleEfficiency) int {
		switch {
		case a.DeltaPct > b.DeltaPct:
			return -1
		case a.DeltaPct < b.DeltaPct:
			return 1
		case a.RecentRevenue > b.RecentRevenue:
			return -1
		case a.RecentRevenue < b.RecentRevenue:
			return 1
		}
		return strings.Compare(a.Plate, b.Plate)
	})

	out := domain.EfficiencyAnalysis{
		SplitDate: split,
		Ranking:   ranking,
		Gainers:   make([]domain.VehicleEfficiency, 0, shortlist),
		Losers:    make([]domain.VehicleEfficiency, 0, shortlist),
	}
	for _, v := range ranking {
		if len(out.Gainers) == shortlist || v.DeltaPct <= 0 {
			break
		}
		out.Gainers = append(out.Gainers, v)
	}
	for i := len(ranking) - 1; i >= 0; i-- {
		v := ranking[i]
		if len(out.Losers) == shortlist || v.DeltaPct >= 0 {
			break
		}
		out.Losers = append(out.Losers, v)
	}
	return out
}
