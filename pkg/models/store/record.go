package store

import (
	"database/sql"
	"database/sql/driver"
)

// Record mirrors one row of the cte_records table. Nullable columns keep their sql.Null* shape
// until they are mapped into the domain.
type Record struct {
	ID                int64
	ClientName        sql.NullString
	VehiclePlate      sql.NullString
	Amount            sql.NullFloat64
	IssuedOn          sql.NullTime
	SettledOn         sql.NullTime
	InvoiceNumber     sql.NullString
	InvoiceIncludedOn sql.NullTime
	ProcessSentOn     sql.NullTime
	FirstSentOn       sql.NullTime
	RqTmcOn           sql.NullTime
	AttestedOn        sql.NullTime
	FinalSentOn       sql.NullTime
	OriginCity        sql.NullString
	DestinationCity   sql.NullString
}

// Columns lists the cte_records columns in scan order.
var Columns = []string{
	"id",
	"client_name",
	"vehicle_plate",
	"amount",
	"issued_on",
	"settled_on",
	"invoice_number",
	"invoice_included_on",
	"process_sent_on",
	"first_sent_on",
	"rq_tmc_on",
	"attested_on",
	"final_sent_on",
	"origin_city",
	"destination_city",
}

// ScanTargets returns pointers to the row fields in Columns order.
func (r *Record) ScanTargets() []any {
	return []any{
		&r.ID,
		&r.ClientName,
		&r.VehiclePlate,
		&r.Amount,
		&r.IssuedOn,
		&r.SettledOn,
		&r.InvoiceNumber,
		&r.InvoiceIncludedOn,
		&r.ProcessSentOn,
		&r.FirstSentOn,
		&r.RqTmcOn,
		&r.AttestedOn,
		&r.FinalSentOn,
		&r.OriginCity,
		&r.DestinationCity,
	}
}

// Values returns the row values in Columns order as plain driver values (nil for NULL),
// suitable for INSERT arguments.
func (r *Record) Values() []any {
	return []any{
		r.ID,
		nullable(r.ClientName),
		nullable(r.VehiclePlate),
		nullable(r.Amount),
		nullable(r.IssuedOn),
		nullable(r.SettledOn),
		nullable(r.InvoiceNumber),
		nullable(r.InvoiceIncludedOn),
		nullable(r.ProcessSentOn),
		nullable(r.FirstSentOn),
		nullable(r.RqTmcOn),
		nullable(r.AttestedOn),
		nullable(r.FinalSentOn),
		nullable(r.OriginCity),
		nullable(r.DestinationCity),
	}
}

func nullable(v driver.Valuer) any {
	value, err := v.Value()
	if err != nil {
		return nil
	}
	return value
}
