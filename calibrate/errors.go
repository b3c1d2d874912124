package calibrate

import "errors"

var (
	// ErrWindowTooShort indicates fewer than Window observations remain after day.
	// Callers hold β constant for the remaining days.
	ErrWindowTooShort = errors.New("calibrate: observation window too short")

	// ErrNilMetro indicates Calibrate was called without a system to roll out.
	ErrNilMetro = errors.New("calibrate: nil metro")
)
