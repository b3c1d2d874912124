package stats

import "errors"

// ErrDayMismatch indicates tallies of different days were pooled.
var ErrDayMismatch = errors.New("stats: tallies from different days")
