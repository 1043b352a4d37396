package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Caches and clients return these
// (optionally wrapped) so services can decide whether to fall through.
//
// - ErrNotFound: key is absent from a cache or store
// - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
