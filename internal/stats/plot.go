package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// Plot is a braille line chart. Every series is scaled to its own range.
type Plot struct {
	Title  string
	Series []Series
	// Width is the number of plot columns; 0 fits the terminal.
	Width  int
	Height int
	// Color forces ANSI colors even when w is not a terminal.
	Color bool
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	fallbackWidth     = 80
	axisTop           = "max"
	axisBottom        = "min"
	axisRule          = " │ "
	colorReset        = "\x1b[0m"
)

// dash patterns distinguish overlapping series without color: a dot is drawn
// when x%period < on.
var dashes = []struct {
	name   string
	period int
	on     int
}{
	{"solid", 1, 1},
	{"dashed", 6, 3},
	{"dotted", 4, 1},
	{"dashdot", 8, 3},
}

var palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m", "\x1b[34m"}

// brailleBits[row][col] is the dot bit inside a 2x4 braille cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// PlotSeries renders series with default options.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return Plot{Title: title, Series: series, Width: width, Height: height}.Render(w)
}

// PlotWidthFor returns the plot columns that fit next to the axis in totalWidth.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(minPlotWidth, totalWidth-axisWidth())
}

func axisWidth() int {
	return displayWidth(axisTop) + displayWidth(axisRule)
}

// Render writes the chart. Empty series are skipped; nothing is written when
// no series has values.
func (p Plot) Render(w io.Writer) error {
	var series []Series
	for _, s := range p.Series {
		if len(s.Values) > 0 {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return nil
	}
	width := p.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	height := p.Height
	if height <= 0 {
		height = defaultPlotHeight
	}

	layers := make([]*canvas, len(series))
	lows := make([]float64, len(series))
	highs := make([]float64, len(series))
	for i, s := range series {
		values := fit(s.Values, width)
		lo, hi := bounds(s.Values)
		if hi-lo < 1e-9 {
			lo, hi = lo-1, hi+1
		}
		lows[i], highs[i] = lo, hi
		layers[i] = newCanvas(width, height)
		dash := dashes[i%len(dashes)]
		dotRows := height * 4
		prevX, prevY := -1, 0
		for col, v := range values {
			x := col * 2
			y := int(math.Round((hi - v) / (hi - lo) * float64(dotRows-1)))
			if prevX < 0 {
				prevX, prevY = x, y
			}
			layers[i].line(prevX, prevY, x, y, func(px int) bool {
				return px%dash.period < dash.on
			})
			prevX, prevY = x, y
		}
	}

	color := useColor(w, p.Color)
	var b strings.Builder
	if p.Title != "" {
		b.WriteString(p.Title + "\n")
	}
	for i, s := range series {
		fmt.Fprintf(&b, "%s: min=%.2f max=%.2f\n", s.Name, lows[i], highs[i])
	}
	labelWidth := displayWidth(axisTop)
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = axisTop
		case height - 1:
			label = axisBottom
		}
		b.WriteString(padCell(label, labelWidth, true))
		b.WriteString(axisRule)
		for col := 0; col < width; col++ {
			var mask uint8
			owner := -1
			for li, layer := range layers {
				if m := layer.cells[row][col]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = li
					}
				}
			}
			ch := string(rune(0x2800 + int(mask)))
			if color && owner >= 0 {
				ch = palette[owner%len(palette)] + ch + colorReset
			}
			b.WriteString(ch)
		}
		b.WriteByte('\n')
	}
	legend := make([]string, len(series))
	for i, s := range series {
		entry := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashes[i%len(dashes)].name)
		if color {
			entry = palette[i%len(palette)] + entry + colorReset
		}
		legend[i] = entry
	}
	b.WriteString("Legend: " + strings.Join(legend, "  ") + "\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// canvas holds braille dot masks, one byte per character cell.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) set(x, y int) {
	row, col := y/4, x/2
	if x < 0 || y < 0 || row >= len(c.cells) || col >= len(c.cells[row]) {
		return
	}
	c.cells[row][col] |= brailleBits[y%4][x%2]
}

// line steps from (x0, y0) to (x1, y1) one dot at a time along the longer axis.
func (c *canvas) line(x0, y0, x1, y1 int, keep func(x int) bool) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		if keep(x0) {
			c.set(x0, y0)
		}
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64((x1-x0)*i)/float64(steps)))
		y := y0 + int(math.Round(float64((y1-y0)*i)/float64(steps)))
		if keep(x) {
			c.set(x, y)
		}
	}
}

// fit resamples values to n points: bucket means when shrinking, linear
// interpolation when stretching.
func fit(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(n-1)
			idx := min(int(pos), last-1)
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
