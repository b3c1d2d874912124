package metro

import "errors"

var (
	// ErrNoCities indicates a Metro without any city.
	ErrNoCities = errors.New("metro: no cities")

	// ErrBadCommuters indicates a base commuter count outside [0, N].
	ErrBadCommuters = errors.New("metro: commuter count out of range")

	// ErrRatioOutOfRange indicates a commuting ratio outside [0,1].
	ErrRatioOutOfRange = errors.New("metro: commuting ratio out of range")

	// ErrCommuterOverflow indicates more commuters than CBD slots.
	ErrCommuterOverflow = errors.New("metro: commuters exceed CBD slots")
)
