package epidemic

import "errors"

var (
	// ErrRateOutOfRange indicates a rate, β or τ outside [0,1].
	ErrRateOutOfRange = errors.New("epidemic: rate out of range")

	// ErrNilGraph indicates Step was called without a graph.
	ErrNilGraph = errors.New("epidemic: nil graph")

	// ErrUnknownMode indicates a Mode other than Recording or Trial.
	ErrUnknownMode = errors.New("epidemic: unknown mode")
)
