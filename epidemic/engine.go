// File: engine.go
// Role: the per-node stochastic update pass.
// Determinism:
//   - Nodes are visited 0..N-1, incident edges in insertion order.
//   - The number and order of draws depend only on the statuses seen, so a
//     fixed Source and graph reproduce the pass exactly.
// Concurrency:
//   - An Engine holds its Source; do not share it across goroutines.

package epidemic

import (
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// Mode selects whether a pass stamps first-entry days.
type Mode uint8

const (
	// Recording stamps FirstDay on first entry. Used by the authoritative run.
	Recording Mode = iota
	// Trial changes statuses only. Used on calibration clones.
	Trial
)

func (m Mode) String() string {
	switch m {
	case Recording:
		return "recording"
	case Trial:
		return "trial"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Source yields uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Transition reports one status change made by the engine.
type Transition struct {
	Node int
	From core.Status
	To   core.Status
	Day  int
}

// StepStats summarizes one pass.
type StepStats struct {
	// Infections counts S→E conversions.
	Infections int
	// Entered counts transitions by target status.
	Entered [core.StatusCount]int
	// Draws counts uniform draws consumed.
	Draws int
}

// Engine applies SEIRAH transitions to a graph.
type Engine struct {
	rates Rates
	src   Source
	hook  func(Transition)
}

// NewEngine returns an Engine drawing from src with DefaultRates unless
// overridden. Panics on a nil src.
func NewEngine(src Source, opts ...Option) *Engine {
	if src == nil {
		panic("epidemic: NewEngine(nil source)")
	}
	e := &Engine{rates: DefaultRates(), src: src}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Rates returns the engine's rate vector.
func (e *Engine) Rates() Rates { return e.rates }

// Step runs one pass over g with transmission rate beta and phase weight tau.
//
// Errors:
//   - ErrNilGraph, ErrRateOutOfRange, ErrUnknownMode.
//
// Complexity: O(N + M).
func (e *Engine) Step(g *core.Graph, day int, beta, tau float64, mode Mode) (StepStats, error) {
	if g == nil {
		return StepStats{}, fmt.Errorf("Step: %w", ErrNilGraph)
	}
	if err := checkUnit("beta", beta); err != nil {
		return StepStats{}, fmt.Errorf("Step: %w", err)
	}
	if err := checkUnit("tau", tau); err != nil {
		return StepStats{}, fmt.Errorf("Step: %w", err)
	}
	if mode != Recording && mode != Trial {
		return StepStats{}, fmt.Errorf("Step(%s): %w", mode, ErrUnknownMode)
	}

	p := pass{
		e:     e,
		g:     g,
		nodes: g.InternalNodes(),
		day:   day,
		mode:  mode,
		thr:   e.rates.thresholds(beta, tau),
	}
	for i := range p.nodes {
		p.update(i)
	}

	return p.stats, nil
}

// pass carries the state of one Step.
type pass struct {
	e     *Engine
	g     *core.Graph
	nodes []core.Node
	day   int
	mode  Mode
	thr   thresholds
	stats StepStats
}

func (p *pass) draw() float64 {
	p.stats.Draws++
	return p.e.src.Float64()
}

// fires reports whether a fresh draw exceeds threshold.
func (p *pass) fires(threshold float64) bool { return p.draw() > threshold }

func (p *pass) move(i int, to core.Status) {
	n := &p.nodes[i]
	from := n.Status
	if p.mode == Recording {
		n.Enter(to, p.day)
	} else {
		n.Status = to
	}
	p.stats.Entered[to]++
	if p.e.hook != nil {
		p.e.hook(Transition{Node: i, From: from, To: to, Day: p.day})
	}
}

// infect takes one draw per incident edge of i.
func (p *pass) infect(i int) {
	for _, eid := range p.g.Incident(i) {
		d := p.draw()
		nb := p.g.Opposite(eid, i)
		if p.nodes[nb].Status != core.Susceptible {
			continue
		}
		if d*float64(p.g.Weight(eid)) > p.thr.infect {
			p.move(nb, core.Exposed)
			p.nodes[i].InfectionsCaused++
			p.stats.Infections++
		}
	}
}

// try moves i to s if a draw exceeds threshold.
func (p *pass) try(i int, threshold float64, s core.Status) bool {
	if p.fires(threshold) {
		p.move(i, s)
		return true
	}
	return false
}

func (p *pass) update(i int) {
	if p.nodes[i].Status == core.Infectious {
		if p.draw() > 0.5 {
			p.infect(i)
			p.try(i, p.thr.iToH, core.Hospitalized)
		} else if !p.try(i, p.thr.iToH, core.Hospitalized) {
			p.infect(i)
		}
	}

	if p.nodes[i].Status == core.Asymptomatic {
		switch u := p.draw(); {
		case u < 1.0/3:
			p.infect(i)
			if !p.try(i, p.thr.aToR, core.Recovered) {
				p.try(i, p.thr.aToH, core.Hospitalized)
			}
		case u < 2.0/3:
			p.infect(i)
			if !p.try(i, p.thr.aToH, core.Hospitalized) {
				p.try(i, p.thr.aToR, core.Recovered)
			}
		default:
			if !p.try(i, p.thr.aToR, core.Recovered) {
				p.try(i, p.thr.aToH, core.Hospitalized)
			}
			if p.nodes[i].Status == core.Asymptomatic {
				p.infect(i)
			}
		}
	}

	if p.nodes[i].Status == core.Exposed {
		if p.draw() > 0.5 {
			p.infect(i)
			p.progress(i)
		} else {
			p.progress(i)
			p.infect(i)
		}
	}

	if p.nodes[i].Status == core.Hospitalized {
		p.try(i, p.thr.hToR, core.Recovered)
	}
}

// progress moves an Exposed node to Infectious, or failing that to Asymptomatic.
func (p *pass) progress(i int) {
	if !p.try(i, p.thr.toI, core.Infectious) {
		p.try(i, p.thr.toA, core.Asymptomatic)
	}
}
