package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Accuracy", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 12, 4)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// title, two range lines, four plot rows, legend
	require.Len(t, lines, 8)
	assert.Equal(t, "Accuracy", lines[0])
	assert.Equal(t, "A: min=1.00 max=3.00", lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "max │ "))
	assert.True(t, strings.HasPrefix(lines[6], "min │ "))
	assert.Equal(t, 12, displayWidth(strings.TrimPrefix(lines[4], "    │ ")))
	assert.Contains(t, lines[7], "Legend:")
	assert.Contains(t, lines[7], "B (dashed)")
}

func TestPlotSeriesFlatAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PlotSeries(&buf, "", []Series{{Name: "empty"}}, 10, 3))
	assert.Empty(t, buf.String())

	require.NoError(t, PlotSeries(&buf, "", []Series{{Name: "flat", Values: []float64{5, 5, 5}}}, 10, 3))
	assert.Contains(t, buf.String(), "flat: min=4.00 max=6.00")
	assert.NotContains(t, buf.String(), "empty")
}

func TestPlotWidthFor(t *testing.T) {
	assert.Equal(t, 80-axisWidth(), PlotWidthFor(80))
	assert.Equal(t, minPlotWidth, PlotWidthFor(0))
	assert.Equal(t, minPlotWidth, PlotWidthFor(12))
}

func TestFit(t *testing.T) {
	assert.Equal(t, []float64{1.5, 3.5}, fit([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{0, 0.5, 1}, fit([]float64{0, 1}, 3))
	assert.Equal(t, []float64{7, 7, 7}, fit([]float64{7}, 3))
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(2, 1)
	c.line(0, 0, 3, 3, func(int) bool { return true })
	assert.Equal(t, brailleBits[0][0]|brailleBits[1][1], c.cells[0][0])
	assert.Equal(t, brailleBits[2][0]|brailleBits[3][1], c.cells[0][1])
}
