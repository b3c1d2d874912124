package report_test

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudeng/Interconnected-SEIRAH/dataset"
	"github.com/oudeng/Interconnected-SEIRAH/report"
)

func rows(n int) []dataset.Row {
	out := make([]dataset.Row, n)
	for d := range out {
		out[d] = dataset.Row{
			Day:    d,
			Beta:   0.1 + 0.01*float64(d),
			Vector: [8]float64{1000 - 10*float64(d), float64(d), float64(d) / 2, float64(d), 1, float64(d) / 3, 0, 0},
			RealH:  float64(d) / 3,
		}
	}
	out[2].RealH = math.NaN()
	return out
}

func TestCompartments_RendersPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Compartments(&buf, "Tokyo", rows(10)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, report.DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, report.DefaultHeight, img.Bounds().Dy())
}

func TestBeta_RendersPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Beta(&buf, "beta", rows(5)))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)
}

func TestRender_FlatSeries(t *testing.T) {
	var buf bytes.Buffer
	err := report.Render(&buf, report.Figure{
		Width: 320, Height: 200,
		Lines: []report.Line{{Name: "H", X: []float64{0, 1, 2}, Y: []float64{0, 0, 0}}},
	})
	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
}

func TestRender_NoData(t *testing.T) {
	var buf bytes.Buffer
	err := report.Render(&buf, report.Figure{
		Lines: []report.Line{{Name: "H", X: []float64{0}, Y: []float64{math.NaN()}}},
	})
	assert.ErrorIs(t, err, report.ErrNoData)
	assert.Zero(t, buf.Len())
}
