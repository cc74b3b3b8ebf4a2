package nan

import "errors"

// Sentinel errors for Manager construction. Every client-facing API method
// is fire-and-forget per spec §7 and reports failures only through
// callbacks; apart from NewManager, the only error-returning function in
// this package is ParseMAC.
var (
	// ErrNilHAL indicates NewManager was called without a HAL.
	ErrNilHAL = errors.New("nan: HAL must not be nil")
)
