// Package calibrate estimates the daily transmission rate β by bisection
// against a 7-day window of observed hospitalization counts.
//
// Each objective evaluation clones the authoritative metro, advances the
// clone for the window in trial mode and compares the pooled Hospitalized
// counts with the observations on days 1..6 of the window:
//
//	SSE(β) = Σ_{d=1..6} (observed[day+d] − H_β(d))²
//
// The search keeps bounds A=0, B=1. Every iteration evaluates SSE at both
// bounds and moves the worse bound to the current midpoint; equal errors
// leave the bounds alone, which ends the search. It stops once two successive
// midpoints differ by less than Epsilon, or after MaxIterations.
//
// The rule compares the two bounds instead of probing the interior, so it
// only finds the minimum of objectives that are monotone on either side of
// it. Stochastic rollouts can mislead it; the result is still a value in
// [0,1].
//
// Failures inside a rollout do not stop the run: Calibrate logs them, counts
// them and returns the previous β with Result.Fallback set.
package calibrate
