package analytics

import "github.com/de-tools/freight-atlas/pkg/models/domain"

const chartVehicleLimit = 10

func newSeries(capacity int) domain.ChartSeries {
	return domain.ChartSeries{
		Labels: make([]string, 0, capacity),
		Values: make([]float64, 0, capacity),
	}
}

func appendPoint(s *domain.ChartSeries, label string, value float64) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, value)
}

func emptyCharts() domain.Charts {
	return domain.Charts{
		MonthlyRevenue: newSeries(0),
		TopClients:     newSeries(0),
		Weekday:        newSeries(0),
		DayOfMonth:     newSeries(0),
		Vehicles:       newSeries(0),
		Projection:     newSeries(0),
	}
}

// buildCharts flattens report sections into plot-ready series.
func buildCharts(r *domain.Report) domain.Charts {
	c := domain.Charts{
		MonthlyRevenue: newSeries(len(r.Revenue.MonthlySeries)),
		TopClients:     newSeries(len(r.Clients.Top)),
		Weekday:        newSeries(len(r.Seasonality.Weekday.Distribution)),
		DayOfMonth:     newSeries(len(r.Seasonality.DayOfMonth)),
		Vehicles:       newSeries(min(len(r.Vehicles.Ranking), chartVehicleLimit)),
		Projection:     newSeries(len(r.Projection.Projections)),
	}

	for _, p := range r.Revenue.MonthlySeries {
		appendPoint(&c.MonthlyRevenue, p.Label, p.Total)
	}
	for _, cl := range r.Clients.Top {
		appendPoint(&c.TopClients, cl.Name, cl.Revenue)
	}
	for _, p := range r.Seasonality.Weekday.Distribution {
		appendPoint(&c.Weekday, p.Label, p.Total)
	}
	for _, p := range r.Seasonality.DayOfMonth {
		appendPoint(&c.DayOfMonth, p.Label, p.Total)
	}
	for i, v := range r.Vehicles.Ranking {
		if i == chartVehicleLimit {
			break
		}
		appendPoint(&c.Vehicles, v.Plate, v.TotalRevenue)
	}
	for _, p := range r.Projection.Projections {
		appendPoint(&c.Projection, p.MonthLabel, p.Projected)
	}
	return c
}
