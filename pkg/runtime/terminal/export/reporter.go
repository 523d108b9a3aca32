package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

type TableConfig struct {
	NameWidth   int
	ValueWidth  int
	DetailWidth int
	// Rows caps the client and vehicle tables
	Rows int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   32,
		ValueWidth:  18,
		DetailWidth: 40,
		Rows:        10,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
Financial analysis ({{.Window.Days}} days){{if .Window.ClientFilter}} client ~ "{{.Window.ClientFilter}}"{{end}}
Period: {{date .Window.Start}} to {{date .Window.End}}, {{.Window.RecordCount}} records
{{- if not .Success}}

Analysis failed: {{.Error}}
{{- end}}

=== Executive summary ===
Health: {{printf "%.0f" .ExecutiveSummary.HealthScore}}/100 ({{.ExecutiveSummary.HealthClass}})
{{range .ExecutiveSummary.Insights}}+ {{.}}
{{end}}{{range .ExecutiveSummary.Alerts}}! {{.}}
{{end}}{{range .ExecutiveSummary.Opportunities}}* {{.}}
{{end}}
=== Indicators ===
{{separator}}
{{formatRow "Indicator" "Value" "Detail"}}
{{separator}}
{{formatRow "Revenue" (money .Fundamentals.TotalRevenue) (printf "%d invoices" .Fundamentals.RecordCount)}}
{{formatRow "Ticket mean" (money .Fundamentals.TicketMean) ""}}
{{formatRow "MoM growth" (pct .Revenue.MoMGrowthPct) (printf "current month %s" (money .Revenue.CurrentMonthRevenue))}}
{{formatRow "Payment rate" (pct .Fundamentals.PaymentRatePct) (printf "%s outstanding" (money .Fundamentals.UnpaidValue))}}
{{formatRow "Process completion" (pct .Fundamentals.CompletionRatePct) (printf "%d complete" .Fundamentals.CompleteProcessCount)}}
{{formatRow "Clients" (printf "%d" .Fundamentals.UniqueClients) (printf "leader holds %s" (pct .Clients.LeaderSharePct))}}
{{formatRow "Revenue trend" .TrendIndicators.Revenue.Trend .TrendIndicators.Granularity}}
{{formatRow "Projected 3 months" (money .Projection.TotalProjected) .Projection.Methodology}}
{{formatRow "Period comparison" .TemporalComparison.OverallTrend (printf "vs year ago %s" .TemporalComparison.VsYearAgo.Classification)}}
{{separator}}
{{- if .Clients.Top}}

=== Top clients ===
{{separator}}
{{formatRow "Client" "Revenue" "Share"}}
{{separator}}
{{range limit .Clients.Top}}{{formatRow .Name (money .Revenue) (printf "%s in %d trips" (pct .SharePct) .Trips)}}
{{end}}{{separator}}
{{- end}}
{{- if .Vehicles.Ranking}}

=== Vehicles ===
{{separator}}
{{formatRow "Plate" "Revenue" "Score"}}
{{separator}}
{{range limit .Vehicles.Ranking}}{{formatRow .Plate (money .TotalRevenue) (printf "%.1f %s" .Score .Classification)}}
{{end}}{{separator}}
{{- end}}
{{- if .Projection.Projections}}

=== Projection ===
{{separator}}
{{formatRow "Month" "Projected" "Range"}}
{{separator}}
{{range .Projection.Projections}}{{formatRow .MonthLabel (money .Projected) (printf "%s .. %s" (money .Min) (money .Max))}}
{{end}}{{separator}}
{{- end}}
`

// Handle renders the report as text tables.
func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value interface{}, detail string) string {
			return fmt.Sprintf("| %-*s | %*v | %-*s |",
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.ValueWidth, value,
				c.config.DetailWidth, truncate(detail, c.config.DetailWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.DetailWidth+2))
		},
		"limit": func(rows interface{}) interface{} {
			switch v := rows.(type) {
			case []domain.ClientStat:
				return v[:min(len(v), c.config.Rows)]
			case []domain.VehicleStat:
				return v[:min(len(v), c.config.Rows)]
			}
			return rows
		},
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"date":  func(v interface{ Format(string) string }) string { return v.Format("2006-01-02") },
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// JSON writes the full report tree.
func (c *Reporter) JSON(report *domain.Report) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "~"
}
