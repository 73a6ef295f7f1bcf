// Package grid maps the target board onto terminal cells.
package grid

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Approximate pixel size of one terminal character cell.
const (
	PixelsPerColumn = 8
	PixelsPerRow    = 16
)

// Mode is a board size preset.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeSmall    Mode = "small"
)

// ErrUnknownMode is returned by ParseMode for an unrecognized name.
var ErrUnknownMode = errors.New("unknown grid mode")

// ParseMode accepts "standard" or "small" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStandard, "":
		return ModeStandard, nil
	case ModeSmall:
		return ModeSmall, nil
	default:
		return "", errors.Wrapf(ErrUnknownMode, "%q", s)
	}
}

// Dimensions returns the board columns and rows of the mode.
func (m Mode) Dimensions() (cols, rows int) {
	if m == ModeSmall {
		return 32, 18
	}
	return 16, 9
}

// Layout places a board of Cols x Rows cells inside a terminal area. Each
// board cell spans CellW x CellH characters; the board starts at (OriginX,
// OriginY) in terminal coordinates.
type Layout struct {
	Cols    int
	Rows    int
	CellW   int
	CellH   int
	OriginX int
	OriginY int
}

// NewLayout fits the mode into a width x height area whose top-left corner
// is at (x, y). Cells keep a 2:1 character aspect so they look square, and
// never shrink below 1x1.
func NewLayout(mode Mode, x, y, width, height int) Layout {
	cols, rows := mode.Dimensions()
	cellH := height / rows
	cellW := width / cols
	if cellW > cellH*2 {
		cellW = cellH * 2
	}
	if cellH > cellW/2 && cellW >= 2 {
		cellH = cellW / 2
	}
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}
	return Layout{
		Cols:    cols,
		Rows:    rows,
		CellW:   cellW,
		CellH:   cellH,
		OriginX: x + max(0, (width-cols*cellW)/2),
		OriginY: y + max(0, (height-rows*cellH)/2),
	}
}

// CellCount returns the number of addressable cells.
func (l Layout) CellCount() int {
	return l.Cols * l.Rows
}

// Width returns the board width in characters.
func (l Layout) Width() int {
	return l.Cols * l.CellW
}

// Height returns the board height in characters.
func (l Layout) Height() int {
	return l.Rows * l.CellH
}

// CellAt returns the cell index under terminal position (x, y).
func (l Layout) CellAt(x, y int) (int, bool) {
	if l.CellW <= 0 || l.CellH <= 0 {
		return -1, false
	}
	dx := x - l.OriginX
	dy := y - l.OriginY
	if dx < 0 || dy < 0 || dx >= l.Width() || dy >= l.Height() {
		return -1, false
	}
	return (dy/l.CellH)*l.Cols + dx/l.CellW, true
}

// Position returns the column and row of a cell index.
func (l Layout) Position(index int) (col, row int) {
	if l.Cols <= 0 {
		return 0, 0
	}
	return index % l.Cols, index / l.Cols
}

// CenterPx returns the pixel center of a cell.
func (l Layout) CenterPx(index int) (x, y float64) {
	col, row := l.Position(index)
	cx := float64(l.OriginX+col*l.CellW) + float64(l.CellW)/2
	cy := float64(l.OriginY+row*l.CellH) + float64(l.CellH)/2
	return cx * PixelsPerColumn, cy * PixelsPerRow
}

// ToPx converts a terminal position to the pixel center of that character.
func ToPx(x, y int) (px, py float64) {
	return (float64(x) + 0.5) * PixelsPerColumn, (float64(y) + 0.5) * PixelsPerRow
}
