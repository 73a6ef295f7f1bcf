package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/findsens/internal/stats"
)

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Runs) == 0 {
		return "No runs found."
	}
	parts := []string{renderSummaryCards(stats.Summarize(report.Runs), width)}

	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, report.Runs, window, width, plotHeight, true); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render curves: %v", err))
	} else {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}

	if len(report.Best) > 0 {
		buf.Reset()
		if err := stats.RenderBestRuns(&buf, report.Best); err == nil {
			parts = append(parts, strings.TrimRight(buf.String(), "\n"))
		}
	}
	return strings.TrimRight(strings.Join(parts, "\n\n"), "\n")
}

func renderSummaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Runs", fmt.Sprintf("%d", s.Runs)),
		metricCard("Avg Score", fmt.Sprintf("%.0f", s.AvgScore)),
		metricCard("Best Score", fmt.Sprintf("%d", s.BestScore)),
		metricCard("Best Grade", string(s.BestGrade)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy)),
		metricCard("Avg Dist", fmt.Sprintf("%.1fpx", s.AvgDistance)),
		metricCard("Deviation", fmt.Sprintf("%+.1f%%", s.AvgDeviation)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}
