package analytics

import (
	"slices"
	"strings"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

type clientAggregate struct {
	name    string
	revenue float64
	trips   int
}

// analyzeClients ranks named clients by revenue, descending, keeping the first topN.
func analyzeClients(records []domain.Record, topN int) domain.ClientAnalysis {
	byName := make(map[string]*clientAggregate)
	total := 0.0
	for _, r := range records {
		total += r.Amount
		if r.ClientName == "" {
			continue
		}
		agg, ok := byName[r.ClientName]
		if !ok {
			agg = &clientAggregate{name: r.ClientName}
			byName[r.ClientName] = agg
		}
		agg.revenue += r.Amount
		agg.trips++
	}

	ranked := make([]*clientAggregate, 0, len(byName))
	for _, agg := range byName {
		ranked = append(ranked, agg)
	}
	slices.SortFunc(ranked, func(a, b *clientAggregate) int {
		switch {
		case a.revenue > b.revenue:
			return -1
		case a.revenue < b.revenue:
			return 1
		case a.trips != b.trips:
			return b.trips - a.trips
		}
		return strings.Compare(a.name, b.name)
	})

	out := domain.ClientAnalysis{
		Top:          make([]domain.ClientStat, 0, min(topN, len(ranked))),
		TotalClients: len(ranked),
	}

	topRevenue := 0.0
	for i, agg := range ranked {
		if i >= topN {
			break
		}
		topRevenue += agg.revenue
		out.Top = append(out.Top, domain.ClientStat{
			Name:       agg.name,
			Revenue:    round2(agg.revenue),
			Trips:      agg.trips,
			TicketMean: round2(ratio(agg.revenue, float64(agg.trips))),
			SharePct:   round2(percent(agg.revenue, total)),
		})
	}

	out.TopSharePct = round2(percent(topRevenue, total))
	if len(out.Top) > 0 {
		out.LeaderSharePct = out.Top[0].SharePct
	}
	return out
}
