// Package stats reduces a graph's node states into the daily vector
// [S, E, I, R, A, H, Rt, Tt].
//
// Rt and Tt are restricted to nodes whose Hospitalized first-entry day equals
// the target day:
//
//	Rt = Σ infections caused / #newly hospitalized
//	Tt = Σ (H entry day − E entry day) / #newly hospitalized
//
// Both are 0 when nobody was newly hospitalized. Seeded compartments are never
// stamped, so they do not count as new hospitalizations.
package stats

import (
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// Vector positions.
const (
	IdxS = iota
	IdxE
	IdxI
	IdxR
	IdxA
	IdxH
	IdxRt
	IdxTt

	// VectorLen is the length of Vector.
	VectorLen
)

// VectorHeader names the Vector columns.
var VectorHeader = [VectorLen]string{"S", "E", "I", "R", "A", "H", "Rt", "Tt"}

// Tally is the raw count behind a daily vector. Tallies of several graphs
// can be pooled with Sum without losing the Rt/Tt denominators.
type Tally struct {
	Day    int
	Counts [core.StatusCount]int

	// NewHospitalized is the number of nodes first hospitalized on Day.
	NewHospitalized int
	// Infections sums InfectionsCaused over those nodes.
	Infections int
	// Delay sums their Exposed→Hospitalized day gaps.
	Delay int
}

// Count tallies g for day.
// Complexity: O(N).
func Count(g *core.Graph, day int) Tally {
	t := Tally{Day: day}
	nodes := g.InternalNodes()
	for i := range nodes {
		n := &nodes[i]
		t.Counts[n.Status]++
		if n.NewlyEntered(core.Hospitalized, day) {
			t.NewHospitalized++
			t.Infections += n.InfectionsCaused
			t.Delay += n.FirstDay[core.Hospitalized] - n.FirstDay[core.Exposed]
		}
	}

	return t
}

// Sum pools tallies. Days must agree; the first tally's day is kept.
func Sum(ts ...Tally) (Tally, error) {
	var out Tally
	for i, t := range ts {
		if i == 0 {
			out.Day = t.Day
		} else if t.Day != out.Day {
			return Tally{}, fmt.Errorf("Sum: day %d mixed with day %d: %w", t.Day, out.Day, ErrDayMismatch)
		}
		for s := range t.Counts {
			out.Counts[s] += t.Counts[s]
		}
		out.NewHospitalized += t.NewHospitalized
		out.Infections += t.Infections
		out.Delay += t.Delay
	}

	return out, nil
}

// N returns the population covered by the tally.
func (t Tally) N() int {
	n := 0
	for _, c := range t.Counts {
		n += c
	}
	return n
}

// Get returns the count for s.
func (t Tally) Get(s core.Status) int { return t.Counts[s] }

// Active returns E+I+A, the compartments that can still spread the disease.
func (t Tally) Active() int {
	return t.Counts[core.Exposed] + t.Counts[core.Infectious] + t.Counts[core.Asymptomatic]
}

// Rt is the mean number of infections caused by the newly hospitalized.
func (t Tally) Rt() float64 {
	if t.NewHospitalized == 0 {
		return 0
	}
	return float64(t.Infections) / float64(t.NewHospitalized)
}

// Tt is the mean Exposed→Hospitalized delay of the newly hospitalized.
func (t Tally) Tt() float64 {
	if t.NewHospitalized == 0 {
		return 0
	}
	return float64(t.Delay) / float64(t.NewHospitalized)
}

// Vector returns [S, E, I, R, A, H, Rt, Tt].
func (t Tally) Vector() [VectorLen]float64 {
	return [VectorLen]float64{
		IdxS:  float64(t.Counts[core.Susceptible]),
		IdxE:  float64(t.Counts[core.Exposed]),
		IdxI:  float64(t.Counts[core.Infectious]),
		IdxR:  float64(t.Counts[core.Recovered]),
		IdxA:  float64(t.Counts[core.Asymptomatic]),
		IdxH:  float64(t.Counts[core.Hospitalized]),
		IdxRt: t.Rt(),
		IdxTt: t.Tt(),
	}
}
