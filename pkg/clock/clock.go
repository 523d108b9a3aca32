package clock

import (
	"time"

	"github.com/de-tools/freight-atlas/pkg/models/domain"
)

// Clock supplies "today" as a calendar date.
type Clock interface {
	Today() time.Time
}

type system struct{}

// System returns a Clock backed by the local system date.
func System() Clock {
	return system{}
}

func (system) Today() time.Time {
	return domain.Date(time.Now())
}

// Fixed is a Clock pinned to a single day.
type Fixed time.Time

func (f Fixed) Today() time.Time {
	return domain.Date(time.Time(f))
}
