package domain

import "time"

// NoPlate groups records that carry no vehicle plate.
const NoPlate = "NO_PLATE"

// Record is one freight invoice (CTE). Dates are calendar dates stored as UTC midnight.
type Record struct {
	ID            int64
	ClientName    string
	VehiclePlate  string
	Amount        float64
	IssuedOn      time.Time
	SettledOn     *time.Time
	InvoiceNumber *string

	InvoiceIncludedOn *time.Time
	ProcessSentOn     *time.Time
	FirstSentOn       *time.Time
	RqTmcOn           *time.Time
	AttestedOn        *time.Time
	FinalSentOn       *time.Time

	OriginCity      *string
	DestinationCity *string
}

func (r Record) IsPaid() bool {
	return r.SettledOn != nil
}

// ProcessComplete reports whether all six process-stage dates are filled.
func (r Record) ProcessComplete() bool {
	return r.InvoiceIncludedOn != nil &&
		r.ProcessSentOn != nil &&
		r.FirstSentOn != nil &&
		r.RqTmcOn != nil &&
		r.AttestedOn != nil &&
		r.FinalSentOn != nil
}

// Plate returns the vehicle plate or NoPlate when it is empty.
func (r Record) Plate() string {
	if r.VehiclePlate == "" {
		return NoPlate
	}
	return r.VehiclePlate
}

// RecordQuery is the predicate a record store is asked to satisfy.
// End is optional; ClientSubstring is matched case-insensitively.
type RecordQuery struct {
	Start           time.Time
	End             *time.Time
	ClientSubstring string
}

// Date truncates t to its calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
