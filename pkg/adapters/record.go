package adapters

import (
	"database/sql"
	"strings"
	"time"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
	"github.com/de-tools/freight-atlas/pkg/models/store"
)

// MapStoreRecordToDomain normalizes a stored row. The second result is false when the row
// has no issue date and therefore cannot belong to any window.
func MapStoreRecordToDomain(row store.Record) (domain.Record, bool) {
	if !row.IssuedOn.Valid {
		return domain.Record{}, false
	}

	amount := 0.0
	if row.Amount.Valid && row.Amount.Float64 > 0 {
		amount = row.Amount.Float64
	}

	return domain.Record{
		ID:                row.ID,
		ClientName:        strings.TrimSpace(row.ClientName.String),
		VehiclePlate:      NormalizePlate(row.VehiclePlate.String),
		Amount:            amount,
		IssuedOn:          domain.Date(row.IssuedOn.Time),
		SettledOn:         dateOrNil(row.SettledOn),
		InvoiceNumber:     stringOrNil(row.InvoiceNumber),
		InvoiceIncludedOn: dateOrNil(row.InvoiceIncludedOn),
		ProcessSentOn:     dateOrNil(row.ProcessSentOn),
		FirstSentOn:       dateOrNil(row.FirstSentOn),
		RqTmcOn:           dateOrNil(row.RqTmcOn),
		AttestedOn:        dateOrNil(row.AttestedOn),
		FinalSentOn:       dateOrNil(row.FinalSentOn),
		OriginCity:        stringOrNil(row.OriginCity),
		DestinationCity:   stringOrNil(row.DestinationCity),
	}, true
}

func MapDomainRecordToStore(r domain.Record) store.Record {
	return store.Record{
		ID:                r.ID,
		ClientName:        sql.NullString{String: r.ClientName, Valid: r.ClientName != ""},
		VehiclePlate:      sql.NullString{String: r.VehiclePlate, Valid: r.VehiclePlate != ""},
		Amount:            sql.NullFloat64{Float64: r.Amount, Valid: true},
		IssuedOn:          sql.NullTime{Time: r.IssuedOn, Valid: !r.IssuedOn.IsZero()},
		SettledOn:         nullTime(r.SettledOn),
		InvoiceNumber:     nullString(r.InvoiceNumber),
		InvoiceIncludedOn: nullTime(r.InvoiceIncludedOn),
		ProcessSentOn:     nullTime(r.ProcessSentOn),
		FirstSentOn:       nullTime(r.FirstSentOn),
		RqTmcOn:           nullTime(r.RqTmcOn),
		AttestedOn:        nullTime(r.AttestedOn),
		FinalSentOn:       nullTime(r.FinalSentOn),
		OriginCity:        nullString(r.OriginCity),
		DestinationCity:   nullString(r.DestinationCity),
	}
}

// NormalizePlate upper-cases and trims a vehicle plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func dateOrNil(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	d := domain.Date(t.Time)
	return &d
}

func stringOrNil(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := strings.TrimSpace(s.String)
	if v == "" {
		return nil
	}
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
