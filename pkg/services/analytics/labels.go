package analytics

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// weekdayNames is indexed Monday=0 .. Sunday=6.
var weekdayNames = [7]string{
	"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo",
}

func monthName(m time.Month) string {
	return monthNames[m-1]
}

// weekdayIndex maps a date onto Monday=0 .. Sunday=6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// addMonths shifts t by months, clamping the day to the end of the target month
// (2025-04-30 minus two months is 2025-02-28, not 2025-03-02).
func addMonths(t time.Time, months int) time.Time {
	target := monthStart(t).AddDate(0, months, 0)
	last := target.AddDate(0, 1, -1).Day()
	return time.Date(target.Year(), target.Month(), min(t.Day(), last), 0, 0, 0, 0, time.UTC)
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s/%d", monthName(t.Month()), t.Year())
}
