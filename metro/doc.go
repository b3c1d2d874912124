// Package metro couples several city contact graphs through one shared
// commuter graph (the CBD) and advances them one day at a time.
//
// Every commuter of every city owns one CBD slot. Slots are handed out by a
// running counter in city order, so each city occupies a contiguous range
// starting where the previous city's range ended.
//
// A simulated day runs in this fixed order:
//
//  1. Resample: clear yesterday's commuter flags, draw ⌊base·ratio⌋
//     commuters per city, flag them and copy their statuses into their slots.
//  2. DisableIfIsolated on the CBD.
//  3. Home phase: engine pass on every city with τ_home.
//  4. DisableIfIsolated on every city.
//  5. Copy commuter statuses city → CBD.
//  6. Engine pass on the CBD with τ_commute.
//  7. Work phase: engine pass on every city with τ_commute, then EnableIfMixing.
//  8. Copy commuter statuses CBD → city.
//
// Steps 5 and 8 copy statuses only; first-day stamps stay with the graph
// that made the transition. Slots not refilled on a day keep their last
// status and still take part in the CBD pass.
//
// Metro is single-threaded. Clone returns an independent copy of every graph
// and commuter list that shares the random stream and the engine, so trial
// rollouts consume the same process-wide stream as the authoritative run.
package metro
