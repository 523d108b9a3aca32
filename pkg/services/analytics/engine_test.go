package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/store/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func newTestEngine(records ...domain.Record) (*Engine, *memory.RecordStore) {
	store := memory.NewRecordStore(records...)
	return NewEngine(store, clock.Fixed(today), DefaultSettings()), store
}

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

// topHeavyRecords returns 100 trips where client A owns 80% of revenue on a single vehicle.
func topHeavyRecords() []domain.Record {
	records := make([]domain.Record, 0, 100)
	others := []string{"B", "C", "D", "E"}
	for i := 0; i < 100; i++ {
		r := domain.Record{
			ID:       int64(i + 1),
			Amount:   100,
			IssuedOn: daysAgo(i % 80),
		}
		if i < 80 {
			r.ClientName = "A"
			r.VehiclePlate = "AAA1111"
		} else {
			other := others[i%len(others)]
			r.ClientName = other
			r.VehiclePlate = "P" + other
		}
		records = append(records, r)
	}
	return records
}

func hasEntry(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func TestEngine_Analyze_Empty(t *testing.T) {
	engine, _ := newTestEngine()

	report := engine.Analyze(testContext(), Request{WindowDays: 30})

	assert.False(t, report.Success)
	assert.Equal(t, NoData, report.Error)
	assert.Equal(t, 0, report.Fundamentals.RecordCount)
	assert.Equal(t, 0.0, report.HealthScore.Total)
	assert.Equal(t, HealthCritical, report.HealthScore.Classification)
	assert.NotNil(t, report.Vehicles.Ranking)
	assert.Empty(t, report.Vehicles.Ranking)
	assert.NotNil(t, report.Projection.Projections)
	assert.Empty(t, report.Projection.Projections)
	assert.Equal(t, domain.Fundamentals{}, report.Fundamentals)
	assert.Equal(t, 0.0, report.Vehicles.Fleet.Top20PctShare)
	assert.Equal(t, 0.0, report.ExecutiveSummary.CurrentRevenue)
	assert.Equal(t, HealthCritical, report.ExecutiveSummary.HealthClass)
	assert.Equal(t, []string{}, report.ExecutiveSummary.Insights)
	assert.Equal(t, []string{}, report.ExecutiveSummary.Alerts)
	assert.Equal(t, []string{}, report.ExecutiveSummary.Opportunities)
	assert.Equal(t, 30, report.Window.Days)
}

func TestEngine_Analyze_StoreUnavailable(t *testing.T) {
	engine, store := newTestEngine(domain.Record{ID: 1, Amount: 10, IssuedOn: daysAgo(1)})
	store.FailWith(errors.New("connection refused"))

	report := engine.Analyze(testContext(), Request{WindowDays: 30})

	assert.False(t, report.Success)
	assert.Contains(t, report.Error, ErrStoreUnavailable.Error())
	assert.Contains(t, report.Error, "connection refused")
	assert.Equal(t, HealthCritical, report.HealthScore.Classification)
	assert.NotNil(t, report.Charts.MonthlyRevenue.Labels)
	assert.Empty(t, report.ExecutiveSummary.Alerts)
	assert.NotNil(t, report.ExecutiveSummary.Alerts)
}

func TestEngine_Analyze_SingleRecord(t *testing.T) {
	engine, _ := newTestEngine(domain.Record{
		ID:           1,
		ClientName:   "A",
		VehiclePlate: "X",
		Amount:       1000,
		IssuedOn:     daysAgo(5),
	})

	report := engine.Analyze(testContext(), Request{WindowDays: 30})

	require.True(t, report.Success)
	assert.Empty(t, report.Error)
	assert.Equal(t, 1000.0, report.Fundamentals.TotalRevenue)
	assert.Equal(t, 1000.0, report.Fundamentals.TicketMean)
	assert.Equal(t, 1, report.Fundamentals.UniqueClients)

	require.Len(t, report.Clients.Top, 1)
	top := report.Clients.Top[0]
	assert.Equal(t, "A", top.Name)
	assert.Equal(t, 1000.0, top.Revenue)
	assert.Equal(t, 1, top.Trips)
	assert.Equal(t, 1000.0, top.TicketMean)

	assert.Equal(t, InsufficientData, report.TrendIndicators.Error)
	assert.Equal(t, 1, report.TrendIndicators.Buckets)

	require.Len(t, report.Vehicles.Ranking, 1)
	assert.Equal(t, "X", report.Vehicles.Ranking[0].Plate)
}

func TestEngine_Analyze_TwoEqualMonths(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 10; i++ {
		records = append(records,
			domain.Record{ID: int64(i + 1), ClientName: "A", Amount: 100, IssuedOn: time.Date(2025, 5, i+1, 0, 0, 0, 0, time.UTC)},
			domain.Record{ID: int64(i + 11), ClientName: "A", Amount: 100, IssuedOn: time.Date(2025, 6, i+1, 0, 0, 0, 0, time.UTC)},
		)
	}
	engine, _ := newTestEngine(records...)

	report := engine.Analyze(testContext(), Request{WindowDays: 60})

	require.True(t, report.Success)
	assert.Equal(t, 0.0, report.Revenue.MoMGrowthPct)
	assert.Equal(t, 2000.0, report.Fundamentals.TotalRevenue)
	assert.Equal(t, 1000.0, report.Revenue.CurrentMonthRevenue)
	assert.Equal(t, 1000.0, report.Revenue.PreviousMonthRevenue)

	// Only two months of history: no projection.
	assert.False(t, report.Projection.Success)
	assert.Equal(t, InsufficientData, report.Projection.Error)
	assert.Equal(t, 2, report.Projection.MonthsUsed)
	assert.Empty(t, report.Projection.Projections)
}

func TestEngine_Analyze_TopHeavy(t *testing.T) {
	engine, _ := newTestEngine(topHeavyRecords()...)

	report := engine.Analyze(testContext(), Request{WindowDays: 90})

	require.True(t, report.Success)
	require.NotEmpty(t, report.Clients.Top)
	assert.Equal(t, "A", report.Clients.Top[0].Name)
	assert.Equal(t, 80.0, report.Clients.LeaderSharePct)
	assert.GreaterOrEqual(t, report.Vehicles.Fleet.Top20PctShare, 80.0)
	assert.True(t, hasEntry(report.ExecutiveSummary.Alerts, "high client concentration"))
}

func TestEngine_Analyze_ClientFilter(t *testing.T) {
	engine, _ := newTestEngine(topHeavyRecords()...)

	report := engine.Analyze(testContext(), Request{WindowDays: 90, ClientFilter: "A"})

	require.True(t, report.Success)
	assert.Equal(t, "A", report.Window.ClientFilter)
	assert.Equal(t, 1, report.Fundamentals.UniqueClients)
	assert.Len(t, report.Clients.Top, 1)
	assert.Equal(t, 8000.0, report.Fundamentals.TotalRevenue)
}

func TestEngine_Analyze_PureGrowth(t *testing.T) {
	var records []domain.Record
	for i, amount := range []float64{1000, 2000, 3000, 4000} {
		records = append(records, domain.Record{
			ID:         int64(i + 1),
			ClientName: "A",
			Amount:     amount,
			IssuedOn:   time.Date(2025, time.Month(3+i), 1, 0, 0, 0, 0, time.UTC),
		})
	}
	engine, _ := newTestEngine(records...)

	report := engine.Analyze(testContext(), Request{WindowDays: 180})

	require.True(t, report.Success)
	assert.Equal(t, GranularityMonthly, report.TrendIndicators.Granularity)
	assert.Equal(t, TrendGrowth, report.TrendIndicators.Revenue.Trend)
	assert.GreaterOrEqual(t, report.TrendIndicators.Revenue.Confidence, 0.9)

	require.True(t, report.Projection.Success)
	require.Len(t, report.Projection.Projections, 3)
	first := report.Projection.Projections[0]
	assert.Equal(t, "2025-07", first.Month)
	assert.Equal(t, "Julho/2025", first.MonthLabel)
	assert.Greater(t, first.Projected, 4000.0)
	assert.InDelta(t, 5000.0, first.Projected, 0.01)
	assert.Equal(t, 95.0, first.ConfidencePct)
	assert.Equal(t, ProjectionMethodology, report.Projection.Methodology)

	assert.True(t, hasEntry(report.ExecutiveSummary.Opportunities, "positive 3-month outlook"))
	assert.Equal(t, report.Projection.TotalProjected, report.ExecutiveSummary.ProjectedTotal)
}

func TestEngine_Analyze_InvalidWindowFallsBackToDefault(t *testing.T) {
	engine, _ := newTestEngine(domain.Record{ID: 1, Amount: 10, IssuedOn: daysAgo(100)})

	report := engine.Analyze(testContext(), Request{WindowDays: 45})

	require.True(t, report.Success)
	assert.Equal(t, DefaultWindowDays, report.Window.Days)
	assert.Equal(t, daysAgo(DefaultWindowDays), report.Window.Start)
	assert.Equal(t, today, report.Window.End)
	assert.Equal(t, 1, report.Window.RecordCount)
}

func TestEngine_Analyze_Properties(t *testing.T) {
	records := topHeavyRecords()
	paidOn := daysAgo(1)
	for i := range records {
		if i%3 == 0 {
			records[i].SettledOn = &paidOn
		}
	}

	for _, w := range ValidWindows {
		t.Run(fmt.Sprintf("window %d", w), func(t *testing.T) {
			engine, _ := newTestEngine(records...)
			report := engine.Analyze(testContext(), Request{WindowDays: w})
			require.True(t, report.Success)

			f := report.Fundamentals
			assert.Equal(t, f.RecordCount, f.PaidCount+f.UnpaidCount)

			h := report.HealthScore
			assert.GreaterOrEqual(t, h.Total, 0.0)
			assert.LessOrEqual(t, h.Total, 100.0)
			c := h.Components
			assert.Equal(t, h.Total, c.Revenue.Earned+c.PaymentRate.Earned+c.Diversification.Earned+c.CompletionRate.Earned+c.Growth.Earned)

			topSum := 0.0
			for i, cl := range report.Clients.Top {
				topSum += cl.Revenue
				if i > 0 {
					assert.GreaterOrEqual(t, report.Clients.Top[i-1].Revenue, cl.Revenue)
				}
			}
			assert.LessOrEqual(t, topSum, f.TotalRevenue+0.001)

			for i, v := range report.Vehicles.Ranking {
				assert.GreaterOrEqual(t, v.Score, 0.0)
				assert.LessOrEqual(t, v.Score, 100.0)
				if i > 0 {
					assert.GreaterOrEqual(t, report.Vehicles.Ranking[i-1].TotalRevenue, v.TotalRevenue)
				}
			}

			for _, p := range report.Projection.Projections {
				assert.LessOrEqual(t, p.Min, p.Projected)
				assert.LessOrEqual(t, p.Projected, p.Max)
				assert.GreaterOrEqual(t, p.ConfidencePct, 30.0)
				assert.LessOrEqual(t, p.ConfidencePct, 95.0)
			}

			again := engine.Analyze(testContext(), Request{WindowDays: w})
			assert.Equal(t, report, again)
		})
	}
}

func TestEngine_Analyze_AddingRevenueNeverDecreasesTotal(t *testing.T) {
	engine, store := newTestEngine(topHeavyRecords()...)
	before := engine.Analyze(testContext(), Request{WindowDays: 30})

	store.Add(domain.Record{ID: 1000, ClientName: "Z", Amount: 0.01, IssuedOn: daysAgo(2)})
	after := engine.Analyze(testContext(), Request{WindowDays: 30})

	assert.Greater(t, after.Fundamentals.TotalRevenue, before.Fundamentals.TotalRevenue)
}

func TestEngine_Analyze_TemporalComparison(t *testing.T) {
	var records []domain.Record
	// Same totals in the current window and in the windows ending two months and a year ago.
	for i, anchor := range []time.Time{today, today.AddDate(0, -2, 0), today.AddDate(-1, 0, 0)} {
		records = append(records, domain.Record{
			ID:         int64(i + 1),
			ClientName: "A",
			Amount:     500,
			IssuedOn:   anchor.AddDate(0, 0, -3),
		})
	}
	engine, _ := newTestEngine(records...)

	report := engine.Analyze(testContext(), Request{WindowDays: 15})

	require.True(t, report.Success)
	tc := report.TemporalComparison
	assert.Empty(t, tc.Error)
	assert.Equal(t, 500.0, tc.Current.Revenue)
	assert.Equal(t, 500.0, tc.TwoMonthsAgo.Revenue)
	assert.Equal(t, 500.0, tc.YearAgo.Revenue)
	assert.Equal(t, domain.PeriodVariation{Classification: ComparisonStable}, tc.VsTwoMonthsAgo)
	assert.Equal(t, domain.PeriodVariation{Classification: ComparisonStable}, tc.VsYearAgo)
	assert.Equal(t, OverallNegative, tc.OverallTrend)
}

func TestEngine_Analyze_TemporalComparisonClampsMonthEnds(t *testing.T) {
	tests := []struct {
		name         string
		today        time.Time
		twoMonthsEnd time.Time
		yearAgoEnd   time.Time
	}{
		{
			name:         "end of april",
			today:        time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
			twoMonthsEnd: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			yearAgoEnd:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "leap day",
			today:        time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			twoMonthsEnd: time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC),
			yearAgoEnd:   time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewRecordStore(
				domain.Record{ID: 1, ClientName: "A", Amount: 100, IssuedOn: tt.today.AddDate(0, 0, -1)},
				// First day of the clamped two-months-ago window.
				domain.Record{ID: 2, ClientName: "A", Amount: 70, IssuedOn: tt.twoMonthsEnd.AddDate(0, 0, -7)},
			)
			engine := NewEngine(store, clock.Fixed(tt.today), DefaultSettings())

			report := engine.Analyze(testContext(), Request{WindowDays: 7})

			require.True(t, report.Success)
			tc := report.TemporalComparison
			assert.Empty(t, tc.Error)
			assert.Equal(t, tt.twoMonthsEnd, tc.TwoMonthsAgo.End)
			assert.Equal(t, tt.twoMonthsEnd.AddDate(0, 0, -7), tc.TwoMonthsAgo.Start)
			assert.Equal(t, 70.0, tc.TwoMonthsAgo.Revenue)
			assert.Equal(t, tt.yearAgoEnd, tc.YearAgo.End)
		})
	}
}

// flakyStore fails every load after the first.
type flakyStore struct {
	*memory.RecordStore
	calls int
}

func (s *flakyStore) Load(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	s.calls++
	if s.calls > 1 {
		return nil, errors.New("timeout")
	}
	return s.RecordStore.Load(ctx, q)
}

func TestEngine_Analyze_SecondaryLoadFailuresStayInSections(t *testing.T) {
	store := &flakyStore{RecordStore: memory.NewRecordStore(topHeavyRecords()...)}
	engine := NewEngine(store, clock.Fixed(today), Settings{})

	report := engine.Analyze(testContext(), Request{WindowDays: 30})

	require.True(t, report.Success)
	assert.Empty(t, report.Error)
	assert.NotZero(t, report.Fundamentals.TotalRevenue)
	assert.NotEmpty(t, report.Vehicles.Ranking)
	assert.Contains(t, report.Vehicles.Efficiency.Error, "timeout")
	assert.Contains(t, report.Projection.Error, "timeout")
	assert.False(t, report.Projection.Success)
	assert.NotNil(t, report.Projection.Projections)
	assert.Contains(t, report.TemporalComparison.Error, "timeout")
}
