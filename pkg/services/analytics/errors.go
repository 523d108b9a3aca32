package analytics

import "errors"

var (
	// ErrStoreUnavailable is returned when the record store cannot be queried.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrInsufficientData marks analyses that lack the buckets they need.
	ErrInsufficientData = errors.New("insufficient data")
)

// InsufficientData is the marker written into sections that could not be computed.
const InsufficientData = "insufficient data"
