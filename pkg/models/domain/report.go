package domain

import "time"

// Report is the analytical report produced for one (window, client filter) request.
// Every section is always present; empty inputs yield zeros and empty lists.
type Report struct {
	Success            bool               `json:"success"`
	Error              string             `json:"error"`
	AnalysisTime       time.Time          `json:"analysis_time"`
	Window             Window             `json:"window"`
	Fundamentals       Fundamentals       `json:"fundamentals"`
	Revenue            RevenueAnalysis    `json:"revenue"`
	Clients            ClientAnalysis     `json:"clients"`
	Projection         Projection         `json:"projection"`
	TemporalComparison TemporalComparison `json:"temporal_comparison"`
	Vehicles           VehicleAnalysis    `json:"vehicles"`
	TrendIndicators    TrendIndicators    `json:"trend_indicators"`
	Seasonality        Seasonality        `json:"seasonality"`
	HealthScore        HealthScore        `json:"health_score"`
	Charts             Charts             `json:"charts"`
	ExecutiveSummary   ExecutiveSummary   `json:"executive_summary"`
}

type Window struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Days         int       `json:"days"`
	ClientFilter string    `json:"client_filter"`
	RecordCount  int       `json:"record_count"`
}

type Fundamentals struct {
	RecordCount          int     `json:"record_count"`
	TotalRevenue         float64 `json:"total_revenue"`
	UniqueClients        int     `json:"unique_clients"`
	PaidCount            int     `json:"paid_count"`
	UnpaidCount          int     `json:"unpaid_count"`
	PaidValue            float64 `json:"paid_value"`
	UnpaidValue          float64 `json:"unpaid_value"`
	CompleteProcessCount int     `json:"complete_process_count"`
	TicketMean           float64 `json:"ticket_mean"`
	PaymentRatePct       float64 `json:"payment_rate_pct"`
	CompletionRatePct    float64 `json:"completion_rate_pct"`
	Error                string  `json:"error,omitempty"`
}

type MonthlyPoint struct {
	Start time.Time `json:"-"`
	Month string    `json:"month"` // 2006-01
	Label string    `json:"label"` // Janeiro/2006
	Total float64   `json:"total"`
	Count int       `json:"count"`
}

type RevenueAnalysis struct {
	MonthlySeries        []MonthlyPoint `json:"monthly_series"`
	MonthlyMean          float64        `json:"monthly_mean"`
	MoMGrowthPct         float64        `json:"mom_growth_pct"`
	CurrentMonthRevenue  float64        `json:"current_month_revenue"`
	PreviousMonthRevenue float64        `json:"previous_month_revenue"`
	Error                string         `json:"error,omitempty"`
}

type ClientStat struct {
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	Trips      int     `json:"trips"`
	TicketMean float64 `json:"ticket_mean"`
	SharePct   float64 `json:"share_pct"`
}

type ClientAnalysis struct {
	Top            []ClientStat `json:"top"`
	TotalClients   int          `json:"total_clients"`
	TopSharePct    float64      `json:"top_share_pct"`
	LeaderSharePct float64      `json:"leader_share_pct"`
	Error          string       `json:"error,omitempty"`
}

type TrendResult struct {
	Slope        float64 `json:"slope"`
	Intercept    float64 `json:"intercept"`
	R            float64 `json:"r"`
	RSquared     float64 `json:"r_squared"`
	Confidence   float64 `json:"confidence"`
	VariationPct float64 `json:"variation_pct"`
	Mean         float64 `json:"mean"`
	Trend        string  `json:"trend"`
}

type TrendBucket struct {
	Start      time.Time `json:"start"`
	Revenue    float64   `json:"revenue"`
	Count      int       `json:"count"`
	TicketMean float64   `json:"ticket_mean"`
}

type TrendIndicators struct {
	Granularity string        `json:"granularity"`
	Buckets     int           `json:"buckets"`
	Series      []TrendBucket `json:"series"`
	Revenue     TrendResult   `json:"revenue"`
	Count       TrendResult   `json:"count"`
	TicketMean  TrendResult   `json:"ticket_mean"`
	Error       string        `json:"error,omitempty"`
}

type DistributionPoint struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type SeasonalProfile struct {
	Distribution []DistributionPoint `json:"distribution"`
	Strongest    string              `json:"strongest"`
	StrongestIdx int                 `json:"strongest_index"`
	Weakest      string              `json:"weakest"`
	WeakestIdx   int                 `json:"weakest_index"`
	Mean         float64             `json:"mean"`
	StdDev       float64             `json:"std_dev"`
	CVPct        float64             `json:"cv_pct"`
	Intensity    string              `json:"intensity"`
}

type Seasonality struct {
	Monthly    SeasonalProfile     `json:"monthly"`
	Weekday    SeasonalProfile     `json:"weekday"`
	DayOfMonth []DistributionPoint `json:"day_of_month"`
	Error      string              `json:"error,omitempty"`
}

type VehicleStat struct {
	Rank                 int     `json:"rank"`
	Plate                string  `json:"plate"`
	TotalRevenue         float64 `json:"total_revenue"`
	TripCount            int     `json:"trip_count"`
	TicketMean           float64 `json:"ticket_mean"`
	UniqueClients        int     `json:"unique_clients"`
	UniqueOrigins        int     `json:"unique_origins"`
	UniqueDestinations   int     `json:"unique_destinations"`
	PaidCount            int     `json:"paid_count"`
	CompleteProcessCount int     `json:"complete_process_count"`
	SettleRatePct        float64 `json:"settle_rate_pct"`
	CompletionRatePct    float64 `json:"completion_rate_pct"`
	RevenuePerDay        float64 `json:"revenue_per_day"`
	Score                float64 `json:"score"`
	Classification       string  `json:"classification"`
}

type VehicleEfficiency struct {
	Plate         string  `json:"plate"`
	RecentRevenue float64 `json:"recent_revenue"`
	PriorRevenue  float64 `json:"prior_revenue"`
	RecentTrips   int     `json:"recent_trips"`
	PriorTrips    int     `json:"prior_trips"`
	DeltaPct      float64 `json:"delta_pct"`
}

type EfficiencyAnalysis struct {
	SplitDate time.Time           `json:"split_date"`
	Ranking   []VehicleEfficiency `json:"ranking"`
	Gainers   []VehicleEfficiency `json:"gainers"`
	Losers    []VehicleEfficiency `json:"losers"`
	Error     string              `json:"error,omitempty"`
}

type FleetSummary struct {
	VehicleCount      int            `json:"vehicle_count"`
	TotalRevenue      float64        `json:"total_revenue"`
	MeanRevenue       float64        `json:"mean_revenue"`
	MedianRevenue     float64        `json:"median_revenue"`
	MaxRevenue        float64        `json:"max_revenue"`
	MinRevenue        float64        `json:"min_revenue"`
	Top20PctShare     float64        `json:"top_20_pct_share"`
	ClassDistribution map[string]int `json:"class_distribution"`
}

type VehicleAnalysis struct {
	Ranking    []VehicleStat      `json:"ranking"`
	Fleet      FleetSummary       `json:"fleet"`
	Efficiency EfficiencyAnalysis `json:"efficiency"`
	Error      string             `json:"error,omitempty"`
}

type MonthProjection struct {
	Month          string  `json:"month"`
	MonthLabel     string  `json:"month_label"`
	TrendValue     float64 `json:"trend_value"`
	SeasonalFactor float64 `json:"seasonal_factor"`
	Projected      float64 `json:"projected"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	ConfidencePct  float64 `json:"confidence_pct"`
	TrendPct       float64 `json:"trend_pct"`
}

type Projection struct {
	Success        bool              `json:"success"`
	Projections    []MonthProjection `json:"projections"`
	TotalProjected float64           `json:"total_projected"`
	TotalMin       float64           `json:"total_min"`
	TotalMax       float64           `json:"total_max"`
	HistoricalMean float64           `json:"historical_mean"`
	MonthsUsed     int               `json:"months_used"`
	Slope          float64           `json:"slope"`
	Intercept      float64           `json:"intercept"`
	RSquared       float64           `json:"r_squared"`
	Methodology    string            `json:"methodology"`
	Error          string            `json:"error,omitempty"`
}

type PeriodMetrics struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Revenue       float64   `json:"revenue"`
	Trips         int       `json:"trips"`
	TicketMean    float64   `json:"ticket_mean"`
	UniqueClients int       `json:"unique_clients"`
}

type PeriodVariation struct {
	RevenuePct       float64 `json:"revenue_pct"`
	TripsPct         float64 `json:"trips_pct"`
	TicketMeanPct    float64 `json:"ticket_mean_pct"`
	UniqueClientsPct float64 `json:"unique_clients_pct"`
	Score            float64 `json:"score"`
	Classification   string  `json:"classification"`
}

type TemporalComparison struct {
	Current        PeriodMetrics   `json:"current"`
	TwoMonthsAgo   PeriodMetrics   `json:"two_months_ago"`
	YearAgo        PeriodMetrics   `json:"year_ago"`
	VsTwoMonthsAgo PeriodVariation `json:"vs_two_months_ago"`
	VsYearAgo      PeriodVariation `json:"vs_year_ago"`
	OverallTrend   string          `json:"overall_trend"`
	Error          string          `json:"error,omitempty"`
}

type ScoreComponent struct {
	Value  float64 `json:"value"`
	Earned float64 `json:"earned"`
	Max    float64 `json:"max"`
	Pct    float64 `json:"pct"`
}

type HealthComponents struct {
	Revenue         ScoreComponent `json:"revenue"`
	PaymentRate     ScoreComponent `json:"payment_rate"`
	Diversification ScoreComponent `json:"diversification"`
	CompletionRate  ScoreComponent `json:"completion_rate"`
	Growth          ScoreComponent `json:"growth"`
}

type HealthScore struct {
	Total          float64          `json:"total"`
	Classification string           `json:"classification"`
	Recommendation string           `json:"recommendation"`
	Components     HealthComponents `json:"components"`
	Error          string           `json:"error,omitempty"`
}

// ChartSeries is a ready-to-plot label/value pair list.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type Charts struct {
	MonthlyRevenue ChartSeries `json:"monthly_revenue"`
	TopClients     ChartSeries `json:"top_clients"`
	Weekday        ChartSeries `json:"weekday"`
	DayOfMonth     ChartSeries `json:"day_of_month"`
	Vehicles       ChartSeries `json:"vehicles"`
	Projection     ChartSeries `json:"projection"`
}

type ExecutiveSummary struct {
	CurrentRevenue float64  `json:"current_revenue"`
	MoMGrowthPct   float64  `json:"mom_growth_pct"`
	ProjectedTotal float64  `json:"projected_3m_total"`
	HealthScore    float64  `json:"health_score"`
	HealthClass    string   `json:"health_class"`
	Insights       []string `json:"insights"`
	Alerts         []string `json:"alerts"`
	Opportunities  []string `json:"opportunities"`
}
