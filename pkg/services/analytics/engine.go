package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/freight-atlas/pkg/clock"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Request selects the analysis window and an optional client-name substring.
type Request struct {
	WindowDays   int
	ClientFilter string
}

// Analyzer produces a report for a request. It never fails: errors are encoded in the report.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) *domain.Report
}

// Engine runs every analysis over one record snapshot and assembles the report.
type Engine struct {
	loader   *Loader
	clock    clock.Clock
	settings Settings
}

func NewEngine(store RecordStore, clk clock.Clock, settings Settings) *Engine {
	if clk == nil {
		clk = clock.System()
	}
	return &Engine{
		loader:   NewLoader(store, clk),
		clock:    clk,
		settings: settings.withDefaults(),
	}
}

func (e *Engine) Analyze(ctx context.Context, req Request) *domain.Report {
	logger := zerolog.Ctx(ctx).With().Str("component", "analytics").Logger()
	ctx = logger.WithContext(ctx)

	today := domain.Date(e.clock.Today())
	days := NormalizeWindow(req.WindowDays, e.settings.DefaultWindowDays)
	if days != req.WindowDays {
		logger.Debug().Int("requested", req.WindowDays).Int("window_days", days).Msg("window coerced to default")
	}
	client := strings.TrimSpace(req.ClientFilter)

	report := &domain.Report{
		AnalysisTime: today,
		Window: domain.Window{
			Start:        today.AddDate(0, 0, -days),
			End:          today,
			Days:         days,
			ClientFilter: client,
		},
	}

	frame, err := e.loader.LoadWindow(ctx, days, client)
	if err != nil {
		return emptyReport(report, err.Error())
	}
	report.Window.RecordCount = frame.Len()
	if frame.Len() == 0 {
		logger.Info().Int("window_days", days).Str("client", client).Msg("no records in window")
		return emptyReport(report, NoData)
	}

	records := frame.Records
	report.Success = true

	report.Fundamentals = runSection(ctx, "fundamentals",
		func() (domain.Fundamentals, error) {
			return computeFundamentals(records), nil
		},
		func(msg string) domain.Fundamentals {
			return domain.Fundamentals{Error: msg}
		})

	report.Revenue = runSection(ctx, "revenue",
		func() (domain.RevenueAnalysis, error) {
			return analyzeRevenue(records), nil
		},
		func(msg string) domain.RevenueAnalysis {
			r := emptyRevenue()
			r.Error = msg
			return r
		})

	report.Clients = runSection(ctx, "clients",
		func() (domain.ClientAnalysis, error) {
			return analyzeClients(records, e.settings.TopClients), nil
		},
		func(msg string) domain.ClientAnalysis {
			c := emptyClients()
			c.Error = msg
			return c
		})

	report.TrendIndicators = runSection(ctx, "trend_indicators",
		func() (domain.TrendIndicators, error) {
			return analyzeTrend(records, days), nil
		},
		func(msg string) domain.TrendIndicators {
			t := emptyTrend(days)
			t.Error = msg
			return t
		})

	report.Seasonality = runSection(ctx, "seasonality",
		func() (domain.Seasonality, error) {
			return analyzeSeasonality(records), nil
		},
		func(msg string) domain.Seasonality {
			s := emptySeasonality()
			s.Error = msg
			return s
		})

	report.Vehicles = runSection(ctx, "vehicles",
		func() (domain.VehicleAnalysis, error) {
			return e.analyzeVehicles(ctx, records, days, client, today), nil
		},
		func(msg string) domain.VehicleAnalysis {
			v := emptyVehicles()
			v.Error = msg
			return v
		})

	report.Projection = runSection(ctx, "projection",
		func() (domain.Projection, error) {
			lookback, err := e.loader.LoadWindow(ctx, e.settings.ProjectionLookbackDays, client)
			if err != nil {
				return domain.Projection{}, err
			}
			return project(lookback.Records, today, e.settings.ProjectionMonths), nil
		},
		func(msg string) domain.Projection {
			p := emptyProjection()
			p.Error = msg
			return p
		})

	report.TemporalComparison = runSection(ctx, "temporal_comparison",
		func() (domain.TemporalComparison, error) {
			return e.compare(ctx, days, client, today)
		},
		func(msg string) domain.TemporalComparison {
			c := emptyComparison()
			c.Error = msg
			return c
		})

	report.HealthScore = runSection(ctx, "health_score",
		func() (domain.HealthScore, error) {
			return scoreHealth(report.Fundamentals, report.Revenue), nil
		},
		func(msg string) domain.HealthScore {
			h := emptyHealthScore()
			h.Error = msg
			return h
		})

	report.Charts = buildCharts(report)
	report.ExecutiveSummary = buildExecutiveSummary(report)

	logger.Info().
		Int("window_days", days).
		Str("client", client).
		Int("records", frame.Len()).
		Float64("health_score", report.HealthScore.Total).
		Msg("analysis completed")

	return report
}

// analyzeVehicles ranks the main frame and measures the efficiency delta over a lookback of
// at least EfficiencyMinWindowDays so the prior part of the split is never empty by construction.
func (e *Engine) analyzeVehicles(ctx context.Context, records []domain.Record, days int, client string, today time.Time) domain.VehicleAnalysis {
	ranking := rankVehicles(records, today)
	out := domain.VehicleAnalysis{
		Ranking: ranking,
		Fleet:   summarizeFleet(ranking),
	}

	split := today.AddDate(0, 0, -e.settings.EfficiencySplitDays)
	frame, err := e.loader.LoadWindow(ctx, max(days, e.settings.EfficiencyMinWindowDays), client)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("section", "vehicles.efficiency").Msg("analysis section failed")
		out.Efficiency = emptyEfficiency()
		out.Efficiency.SplitDate = split
		out.Efficiency.Error = err.Error()
		return out
	}
	out.Efficiency = analyzeEfficiency(frame.Records, split, e.settings.VehicleShortlist)
	return out
}

// compare loads the current window and the same-length windows ending two months and one
// year before today.
func (e *Engine) compare(ctx context.Context, days int, client string, today time.Time) (domain.TemporalComparison, error) {
	anchors := []time.Time{today, addMonths(today, -2), addMonths(today, -12)}
	frames := make([]Frame, len(anchors))
	for i, end := range anchors {
		f, err := e.loader.LoadRange(ctx, end.AddDate(0, 0, -days), end, client)
		if err != nil {
			return domain.TemporalComparison{}, err
		}
		frames[i] = f
	}
	return compareTemporal(frames[0], frames[1], frames[2]), nil
}

// runSection computes one report section. Errors and panics are logged and replaced by the
// fallback shape carrying the error message.
func runSection[T any](ctx context.Context, name string, compute func() (T, error), fallback func(msg string) T) (out T) {
	logger := zerolog.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s: %v", name, r)
			logger.Warn().Err(err).Str("section", name).Msg("analysis section panicked")
			out = fallback(err.Error())
		}
	}()

	result, err := compute()
	if err != nil {
		logger.Warn().Err(err).Str("section", name).Msg("analysis section failed")
		return fallback(err.Error())
	}
	return result
}
