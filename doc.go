// Package seirah is a stochastic simulator of an epidemic spreading over
// several interconnected cities.
//
// Each city is a Newman–Watts–Strogatz small-world contact graph whose nodes
// move through the SEIRAH compartments:
//
//	S ──► E ──► I ──► H ──► R
//	      │           ▲     ▲
//	      └──► A ─────┴─────┘
//
// Every day a fraction of each city's residents commutes into a shared
// central-business-district graph (the CBD). The day runs in two phases,
// daytime in the CBD and nighttime at home, and the transmission rate β is
// re-estimated daily by bisection so that simulated hospitalizations track an
// observed series.
//
// Packages:
//
//	core/            contact graph, node compartments, first-day stamps, clone
//	builder/         small-world generator, ring and path fixtures, seeding
//	gate/            edge gating around non-participating nodes
//	epidemic/        rates, time-zone weights, recording and trial passes
//	metro/           cities plus CBD: commuter resampling and the two-phase day
//	stats/           per-day tallies and the [S,E,I,R,A,H,Rt,Tt] vector
//	calibrate/       bisection search for β on cloned systems
//	simulation/      the authoritative daily loop
//	forecast/        projection until extinction
//	snapshot/        binary snapshots and GraphML export
//	config/          YAML scenarios
//	dataset/         observed-series and result CSV files
//	report/          PNG charts
//	logging/         structured logging
//	observability/   Prometheus metrics and OpenTelemetry tracing
//	cmd/seirah/      command-line entry point
//
// Quick start:
//
//	go run ./cmd/seirah init -o scenario.yaml
//	go run ./cmd/seirah run -config scenario.yaml
//	go run ./cmd/seirah predict -config scenario.yaml
package seirah
