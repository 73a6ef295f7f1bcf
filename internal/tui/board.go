package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/findsens/internal/grid"
)

var (
	targetStyle = lipgloss.NewStyle().Background(lipgloss.Color("#FF4D4F"))
	cellStyles  = [2]lipgloss.Style{
		lipgloss.NewStyle().Background(lipgloss.Color("#1E1E1E")),
		lipgloss.NewStyle().Background(lipgloss.Color("#262626")),
	}
)

// renderBoard draws the board as layout.Rows*layout.CellH lines, each
// layout.Width() columns wide, with the active cell lit.
func renderBoard(layout grid.Layout, active int) []string {
	blank := strings.Repeat(" ", layout.CellW)
	lines := make([]string, 0, layout.Height())
	for row := 0; row < layout.Rows; row++ {
		var b strings.Builder
		for col := 0; col < layout.Cols; col++ {
			idx := row*layout.Cols + col
			style := cellStyles[(row+col)%2]
			if idx == active {
				style = targetStyle
			}
			b.WriteString(style.Render(blank))
		}
		line := b.String()
		for i := 0; i < layout.CellH; i++ {
			lines = append(lines, line)
		}
	}
	return lines
}
