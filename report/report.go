// Package report renders daily results as PNG line charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/oudeng/Interconnected-SEIRAH/dataset"
	"github.com/oudeng/Interconnected-SEIRAH/stats"
)

// ErrNoData indicates there is nothing to plot.
var ErrNoData = errors.New("report: no data")

// Default canvas size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

// Line is one plotted series. NaN values are skipped.
type Line struct {
	Name   string
	X      []float64
	Y      []float64
	Color  drawing.Color
	Dashed bool
}

// Figure is one chart.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
	Lines  []Line
}

var palette = map[string]drawing.Color{
	"S":     {R: 31, G: 119, B: 180, A: 255},
	"E":     {R: 255, G: 127, B: 14, A: 255},
	"I":     {R: 214, G: 39, B: 40, A: 255},
	"R":     {R: 44, G: 160, B: 44, A: 255},
	"A":     {R: 148, G: 103, B: 189, A: 255},
	"H":     {R: 140, G: 86, B: 75, A: 255},
	"realH": {R: 0, G: 0, B: 0, A: 255},
	"beta":  {R: 23, G: 190, B: 207, A: 255},
}

// Render draws f as PNG to w.
func Render(w io.Writer, f Figure) error {
	if f.Width <= 0 {
		f.Width = DefaultWidth
	}
	if f.Height <= 0 {
		f.Height = DefaultHeight
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMax := 0.0
	var series []chart.Series
	for _, l := range f.Lines {
		xs, ys := finite(l.X, l.Y)
		if len(xs) == 0 {
			continue
		}
		for i := range xs {
			xMin = math.Min(xMin, xs[i])
			xMax = math.Max(xMax, xs[i])
			yMax = math.Max(yMax, ys[i])
		}
		style := chart.Style{StrokeColor: l.Color, StrokeWidth: 2}
		if l.Dashed {
			style.StrokeDashArray = []float64{5, 3}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("Render(%q): %w", f.Title, ErrNoData)
	}
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if yMax <= 0 {
		yMax = 1
	}

	graph := chart.Chart{
		Title:  f.Title,
		Width:  f.Width,
		Height: f.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  f.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  f.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.05},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("Render(%q): %w", f.Title, err)
	}
	return nil
}

// Compartments plots E, I, R, A and H over the rows, plus the observed H
// where known. S is left out; it dwarfs the other curves.
func Compartments(w io.Writer, title string, rows []dataset.Row) error {
	days := make([]float64, len(rows))
	for i, r := range rows {
		days[i] = float64(r.Day)
	}
	column := func(idx int) []float64 {
		out := make([]float64, len(rows))
		for i, r := range rows {
			out[i] = r.Vector[idx]
		}
		return out
	}

	fig := Figure{Title: title, XLabel: "day", YLabel: "nodes"}
	for _, idx := range []int{stats.IdxE, stats.IdxI, stats.IdxR, stats.IdxA, stats.IdxH} {
		name := stats.VectorHeader[idx]
		fig.Lines = append(fig.Lines, Line{Name: name, X: days, Y: column(idx), Color: palette[name]})
	}
	realH := make([]float64, len(rows))
	for i, r := range rows {
		realH[i] = r.RealH
	}
	fig.Lines = append(fig.Lines, Line{Name: "observed H", X: days, Y: realH, Color: palette["realH"], Dashed: true})

	return Render(w, fig)
}

// Beta plots the daily transmission rate.
func Beta(w io.Writer, title string, rows []dataset.Row) error {
	days := make([]float64, len(rows))
	betas := make([]float64, len(rows))
	for i, r := range rows {
		days[i] = float64(r.Day)
		betas[i] = r.Beta
	}
	return Render(w, Figure{
		Title:  title,
		XLabel: "day",
		YLabel: "beta",
		Lines:  []Line{{Name: "beta_t", X: days, Y: betas, Color: palette["beta"]}},
	})
}

// finite drops points whose x or y is NaN or infinite.
func finite(xs, ys []float64) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	outX := make([]float64, 0, n)
	outY := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		outX = append(outX, xs[i])
		outY = append(outY, ys[i])
	}
	return outX, outY
}
