package analytics

import "github.com/de-tools/freight-atlas/pkg/models/domain"

func computeFundamentals(records []domain.Record) domain.Fundamentals {
	var (
		f       domain.Fundamentals
		clients = make(map[string]struct{})
	)

	for _, r := range records {
		f.RecordCount++
		f.TotalRevenue += r.Amount
		if r.ClientName != "" {
			clients[r.ClientName] = struct{}{}
		}
		if r.IsPaid() {
			f.PaidCount++
			f.PaidValue += r.Amount
		} else {
			f.UnpaidCount++
			f.UnpaidValue += r.Amount
		}
		if r.ProcessComplete() {
			f.CompleteProcessCount++
		}
	}

	n := float64(f.RecordCount)
	f.UniqueClients = len(clients)
	f.TicketMean = round2(ratio(f.TotalRevenue, n))
	f.PaymentRatePct = round2(percent(float64(f.PaidCount), n))
	f.CompletionRatePct = round2(percent(float64(f.CompleteProcessCount), n))
	f.TotalRevenue = round2(f.TotalRevenue)
	f.PaidValue = round2(f.PaidValue)
	f.UnpaidValue = round2(f.UnpaidValue)
	return f
}
