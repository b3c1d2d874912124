package simulation

import (
	"context"
	"fmt"
	"math"

	"github.com/oudeng/Interconnected-SEIRAH/dataset"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
	"github.com/oudeng/Interconnected-SEIRAH/stats"
)

// Rows converts one day into result rows: one per city in configuration order, then
// the pooled aggregate. Observed values come from series when it covers day;
// otherwise RealH is NaN. commuters may be nil.
func Rows(day int, beta float64, t metro.Tallies, specs []metro.CitySpec, commuters []int, series dataset.Series) []dataset.Row {
	date := series.DateAt(day)
	observed := series.CityAt(day)
	rows := make([]dataset.Row, 0, len(specs)+1)
	agg := dataset.Row{Date: date, Day: day, Beta: beta, Vector: t.Total.Vector(), RealH: series.TotalAt(day)}
	for i, spec := range specs {
		row := dataset.Row{
			Date:   date,
			Day:    day,
			Beta:   beta,
			Vector: cityVector(t, i),
			RealH:  math.NaN(),
			N:      spec.N,
			K:      spec.K,
			P:      spec.P,
		}
		if i < len(observed) {
			row.RealH = observed[i]
		}
		if i < len(commuters) {
			row.Commuters = commuters[i]
		}
		agg.N += row.N
		agg.Commuters += row.Commuters
		rows = append(rows, row)
	}

	return append(rows, agg)
}

func cityVector(t metro.Tallies, i int) [stats.VectorLen]float64 {
	if i < len(t.Cities) {
		return t.Cities[i].Vector()
	}
	return [stats.VectorLen]float64{}
}

// ResultObserver writes every Record into a ResultSet whose files are the
// cities in configuration order followed by the aggregate, and keeps the rows for
// plotting.
type ResultObserver struct {
	set    *dataset.ResultSet
	specs  []metro.CitySpec
	series dataset.Series
	rows   [][]dataset.Row
}

// NewResultObserver returns an observer writing to set. set may be nil to
// only collect rows.
func NewResultObserver(set *dataset.ResultSet, specs []metro.CitySpec, series dataset.Series) *ResultObserver {
	return &ResultObserver{
		set:    set,
		specs:  specs,
		series: series,
		rows:   make([][]dataset.Row, len(specs)+1),
	}
}

// Observe implements Observer.
func (o *ResultObserver) Observe(_ context.Context, r Record) error {
	for i, row := range Rows(r.Day, r.Beta, r.Tallies, o.specs, r.Commuters, o.series) {
		o.rows[i] = append(o.rows[i], row)
		if o.set == nil {
			continue
		}
		if err := o.set.Write(i, row); err != nil {
			return fmt.Errorf("ResultObserver: %w", err)
		}
	}
	return nil
}

// Rows returns the collected rows of file i (cities, then the aggregate).
func (o *ResultObserver) Rows(i int) []dataset.Row {
	if i < 0 || i >= len(o.rows) {
		return nil
	}
	return o.rows[i]
}
