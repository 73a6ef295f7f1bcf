package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/findsens/internal/engine"
)

const segmentGap = "  "

var (
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	heartStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

func hudSegments(s engine.Snapshot) []string {
	lives := "Lives ∞"
	if s.Lives >= 0 {
		lives = "Lives " + strings.Repeat("♥", s.Lives)
	}
	return []string{
		fmt.Sprintf("Hits %d", s.Hits),
		fmt.Sprintf("Misses %d", s.Misses),
		lives,
		"Time " + engine.FormatElapsed(s.Elapsed),
		fmt.Sprintf("Interval %dms", s.Interval.Milliseconds()),
	}
}

// fitSegments joins as many leading segments as fit in width columns.
func fitSegments(segments []string, width int) string {
	var b strings.Builder
	used := 0
	for i, seg := range segments {
		w := runewidth.StringWidth(seg)
		if i > 0 {
			w += runewidth.StringWidth(segmentGap)
		}
		if width > 0 && used+w > width {
			break
		}
		if i > 0 {
			b.WriteString(segmentGap)
		}
		b.WriteString(seg)
		used += w
	}
	return b.String()
}

func (m *Model) renderHUD() string {
	line := fitSegments(hudSegments(m.snap), m.width)
	if m.snap.Lives >= 0 {
		line = strings.Replace(line, strings.Repeat("♥", m.snap.Lives), heartStyle.Render(strings.Repeat("♥", m.snap.Lives)), 1)
	}
	return hudStyle.Render(line)
}

func (m *Model) renderFooter() string {
	var keys []string
	switch m.phase {
	case phaseReady:
		keys = []string{"space start", "l life mode", "q quit"}
	case phasePlaying:
		keys = []string{"click the target", "space/esc stop", "ctrl+c quit"}
	case phaseNaming:
		keys = []string{"enter save", "esc skip"}
	case phaseResult:
		keys = []string{"space play again", "q quit"}
	}
	return footerStyle.Render(fitSegments(keys, m.width))
}
