package metro

import (
	"fmt"
	"math/rand"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/epidemic"
	"github.com/oudeng/Interconnected-SEIRAH/gate"
	"github.com/oudeng/Interconnected-SEIRAH/stats"
)

// CBDName labels the commuter graph.
const CBDName = "CBD"

// CitySpec describes one city: its population and how many residents
// commute on a day with ratio 1.
type CitySpec struct {
	Name      string
	N         int
	K         int
	P         float64
	Commuters int
	Initial   builder.Compartments
}

// CommuterSpec describes the CBD topology. Its size is the sum of the base
// commuter counts of all cities.
type CommuterSpec struct {
	K int
	P float64
}

// City is one city graph with its current commuter subset.
type City struct {
	Spec  CitySpec
	Graph *core.Graph

	// CommuterIDs lists today's commuters in slot order.
	CommuterIDs []int
	// FirstSlot is the first CBD slot of this city.
	FirstSlot int
}

// Metro is the interconnected system of cities and CBD.
type Metro struct {
	cities []*City
	cbd    *core.Graph
	engine *epidemic.Engine
	rng    *rand.Rand
	tau    epidemic.Tau
}

// New generates every city graph and the CBD, seeds the initial
// compartments, draws the base commuter subsets (ratio 1) and gates the CBD.
// Every topology is frozen on return.
//
// Cities are generated in order; each one's seeding and commuter draw
// consume the process stream before the next city is built.
//
// Errors:
//   - ErrNoCities, ErrBadCommuters.
//   - builder sentinels (ErrSampleExceedsPopulation, ErrInvalidDegree, ...).
func New(cities []CitySpec, cbd CommuterSpec, opts ...Option) (*Metro, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("New: %w", ErrNoCities)
	}
	s := newSettings(opts...)

	slots, slot := 0, 0
	for _, c := range cities {
		if c.Commuters < 0 || c.Commuters > c.N {
			return nil, fmt.Errorf("New(%s): %d commuters of N=%d: %w", c.Name, c.Commuters, c.N, ErrBadCommuters)
		}
		slots += c.Commuters
	}

	cbdGraph, err := builder.BuildGraph(
		[]core.GraphOption{core.WithName(CBDName), core.WithCapacity(slots, slots*cbd.K/2)},
		[]builder.BuilderOption{builder.WithTopologySeed(s.cbdSeed)},
		builder.SmallWorld(slots, cbd.K, cbd.P))
	if err != nil {
		return nil, fmt.Errorf("New(%s): %w", CBDName, err)
	}

	m := &Metro{
		cbd:    cbdGraph,
		engine: epidemic.NewEngine(s.rng, append([]epidemic.Option{epidemic.WithRates(s.rates)}, s.engine...)...),
		rng:    s.rng,
		tau:    s.tau,
	}
	for _, spec := range cities {
		g, err := builder.NewPopulation(builder.PopulationSpec{
			Name: spec.Name, N: spec.N, K: spec.K, P: spec.P, Initial: spec.Initial,
		}, builder.WithRand(s.rng), builder.WithTopologySeed(s.citySeed))
		if err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
		city := &City{Spec: spec, Graph: g, FirstSlot: slot}
		if err = m.draw(city, spec.Commuters); err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
		slot += spec.Commuters
		m.cities = append(m.cities, city)
	}
	if err = gate.DisableIfIsolated(m.cbd); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	m.cbd.Freeze()
	for _, c := range m.cities {
		c.Graph.Freeze()
	}

	return m, nil
}

// Cities returns the cities in slot order. The slice is shared.
func (m *Metro) Cities() []*City { return m.cities }

// CBD returns the commuter graph.
func (m *Metro) CBD() *core.Graph { return m.cbd }

// Engine returns the shared transition engine.
func (m *Metro) Engine() *epidemic.Engine { return m.engine }

// Tau returns the phase weights.
func (m *Metro) Tau() epidemic.Tau { return m.tau }

// Population returns the total number of city residents.
func (m *Metro) Population() int {
	n := 0
	for _, c := range m.cities {
		n += c.Graph.NodeCount()
	}
	return n
}

// Resample performs steps 1 and 2 of the day: new commuter subsets of size
// ⌊Commuters·ratio⌋ per city, copied into the CBD, which is then gated.
func (m *Metro) Resample(ratio float64) error {
	if !(ratio >= 0 && ratio <= 1) {
		return fmt.Errorf("Resample(%g): %w", ratio, ErrRatioOutOfRange)
	}
	slot := 0
	for _, c := range m.cities {
		c.FirstSlot = slot
		if err := m.draw(c, int(float64(c.Spec.Commuters)*ratio)); err != nil {
			return fmt.Errorf("Resample: %w", err)
		}
		slot += len(c.CommuterIDs)
	}
	if err := gate.DisableIfIsolated(m.cbd); err != nil {
		return fmt.Errorf("Resample: %w", err)
	}

	return nil
}

// draw replaces c's commuter subset with n fresh residents and copies their
// statuses into the CBD starting at c.FirstSlot.
func (m *Metro) draw(c *City, n int) error {
	if c.FirstSlot+n > m.cbd.NodeCount() {
		return fmt.Errorf("%s: slots %d..%d of %d: %w",
			c.Spec.Name, c.FirstSlot, c.FirstSlot+n, m.cbd.NodeCount(), ErrCommuterOverflow)
	}
	for _, id := range c.CommuterIDs {
		if err := c.Graph.SetCommuter(id, false); err != nil {
			return err
		}
	}
	ids, err := builder.Sample(m.rng, c.Graph.NodeCount(), n)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Spec.Name, err)
	}
	c.CommuterIDs = ids
	for _, id := range ids {
		if err = c.Graph.SetCommuter(id, true); err != nil {
			return err
		}
	}

	return m.toCBD(c)
}

// toCBD copies c's commuter statuses into its CBD slots.
func (m *Metro) toCBD(c *City) error {
	for k, id := range c.CommuterIDs {
		st, err := c.Graph.Status(id)
		if err != nil {
			return err
		}
		if err = m.cbd.SetStatus(c.FirstSlot+k, st); err != nil {
			return err
		}
	}
	return nil
}

// fromCBD copies CBD slot statuses back onto c's commuters.
func (m *Metro) fromCBD(c *City) error {
	for k, id := range c.CommuterIDs {
		st, err := m.cbd.Status(c.FirstSlot + k)
		if err != nil {
			return err
		}
		if err = c.Graph.SetStatus(id, st); err != nil {
			return err
		}
	}
	return nil
}

// Advance performs steps 3 to 8 of the day with transmission rate beta.
// Calibration rollouts call it in Trial mode on a clone, reusing the
// commuter subsets already drawn.
func (m *Metro) Advance(day int, beta float64, mode epidemic.Mode) error {
	for _, c := range m.cities {
		if _, err := m.engine.Step(c.Graph, day, beta, m.tau.Home, mode); err != nil {
			return fmt.Errorf("Advance(%d): home %s: %w", day, c.Spec.Name, err)
		}
		if err := gate.DisableIfIsolated(c.Graph); err != nil {
			return fmt.Errorf("Advance(%d): %w", day, err)
		}
	}
	for _, c := range m.cities {
		if err := m.toCBD(c); err != nil {
			return fmt.Errorf("Advance(%d): to %s: %w", day, CBDName, err)
		}
	}
	if _, err := m.engine.Step(m.cbd, day, beta, m.tau.Commute, mode); err != nil {
		return fmt.Errorf("Advance(%d): %s: %w", day, CBDName, err)
	}
	for _, c := range m.cities {
		if _, err := m.engine.Step(c.Graph, day, beta, m.tau.Commute, mode); err != nil {
			return fmt.Errorf("Advance(%d): work %s: %w", day, c.Spec.Name, err)
		}
		if err := gate.EnableIfMixing(c.Graph); err != nil {
			return fmt.Errorf("Advance(%d): %w", day, err)
		}
	}
	for _, c := range m.cities {
		if err := m.fromCBD(c); err != nil {
			return fmt.Errorf("Advance(%d): from %s: %w", day, CBDName, err)
		}
	}

	return nil
}

// Day runs a full authoritative day: Resample, Advance in Recording mode,
// then tallies.
func (m *Metro) Day(day int, ratio, beta float64) (Tallies, error) {
	if err := m.Resample(ratio); err != nil {
		return Tallies{}, fmt.Errorf("Day(%d): %w", day, err)
	}
	if err := m.Advance(day, beta, epidemic.Recording); err != nil {
		return Tallies{}, fmt.Errorf("Day(%d): %w", day, err)
	}
	return m.Tally(day)
}

// Tallies holds one day's statistics.
type Tallies struct {
	// Cities is indexed like Metro.Cities.
	Cities []stats.Tally
	// Total pools the cities.
	Total stats.Tally
	// Commuters tallies the CBD graph on its own.
	Commuters stats.Tally
}

// Tally counts every city and the CBD for day.
func (m *Metro) Tally(day int) (Tallies, error) {
	out := Tallies{Cities: make([]stats.Tally, len(m.cities))}
	for i, c := range m.cities {
		out.Cities[i] = stats.Count(c.Graph, day)
	}
	total, err := stats.Sum(out.Cities...)
	if err != nil {
		return Tallies{}, fmt.Errorf("Tally(%d): %w", day, err)
	}
	out.Total = total
	out.Commuters = stats.Count(m.cbd, day)

	return out, nil
}

// Clone deep-copies every graph and commuter list. The engine and random
// stream are shared.
func (m *Metro) Clone() *Metro {
	c := &Metro{
		cities: make([]*City, len(m.cities)),
		cbd:    m.cbd.Clone(),
		engine: m.engine,
		rng:    m.rng,
		tau:    m.tau,
	}
	for i, city := range m.cities {
		c.cities[i] = &City{
			Spec:        city.Spec,
			Graph:       city.Graph.Clone(),
			CommuterIDs: append([]int(nil), city.CommuterIDs...),
			FirstSlot:   city.FirstSlot,
		}
	}

	return c
}
