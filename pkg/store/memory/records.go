package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/de-tools/freight-atlas/pkg/adapters"
	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

// RecordStore keeps a snapshot of records in memory. Load never exposes the internal slice.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.Record
	err     error
}

func NewRecordStore(records ...domain.Record) *RecordStore {
	s := &RecordStore{}
	s.Add(records...)
	return s
}

func (s *RecordStore) Add(records ...domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		r.VehiclePlate = adapters.NormalizePlate(r.VehiclePlate)
		r.ClientName = strings.TrimSpace(r.ClientName)
		if !r.IssuedOn.IsZero() {
			r.IssuedOn = domain.Date(r.IssuedOn)
		}
		s.records = append(s.records, r)
	}
}

// FailWith makes every subsequent Load return err; nil restores normal behaviour.
func (s *RecordStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RecordStore) Load(_ context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	needle := strings.ToLower(q.ClientSubstring)
	out := make([]domain.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.IssuedOn.IsZero() || r.IssuedOn.Before(q.Start) {
			continue
		}
		if q.End != nil && r.IssuedOn.After(*q.End) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.ClientName), needle) {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b domain.Record) int {
		if c := a.IssuedOn.Compare(b.IssuedOn); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}
