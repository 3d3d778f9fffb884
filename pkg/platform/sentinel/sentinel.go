package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrOutOfRange: sequence index beyond the current log length
// - ErrUnavailable: backing store temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrOutOfRange  = errors.New("out of range")
	ErrUnavailable = errors.New("unavailable")
)
