package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/findsens/internal/precision"
	"github.com/verte-zerg/findsens/internal/stats"
)

const plotHeight = 5

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	overlayBox  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 3)
	gradeStyles = map[precision.Grade]lipgloss.Style{
		precision.GradeSSS: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700")),
		precision.GradeSS:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB000")),
		precision.GradeS:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52C41A")),
	}
)

func (m *Model) overlayReady(lines []string) []string {
	life := "off"
	if m.lifeMode {
		life = "on"
	}
	body := strings.Join([]string{
		titleStyle.Render("FIND YOUR SENS"),
		"",
		"Click the lit cell before it moves.",
		"Misses slow the targets down, hits speed them up.",
		"",
		fmt.Sprintf("%s %s   %s %s", labelStyle.Render("Mode"), valueStyle.Render(string(m.mode)), labelStyle.Render("Life mode"), valueStyle.Render(life)),
	}, "\n")
	box := strings.Split(overlayBox.Render(body), "\n")
	top := max(0, m.layout.OriginY+(m.layout.Height()-len(box))/2)
	for i, line := range box {
		row := top + i
		placed := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line)
		if row < len(lines) {
			lines[row] = placed
		} else {
			lines = append(lines, placed)
		}
	}
	return lines
}

func (m *Model) renderResult() string {
	r := m.result
	if r == nil {
		return ""
	}
	a := r.analysis
	grade := string(a.Grade)
	if style, ok := gradeStyles[a.Grade]; ok {
		grade = style.Render(grade)
	} else {
		grade = valueStyle.Render(grade)
	}

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-14s", label)) + valueStyle.Render(value)
	}
	lines := []string{
		titleStyle.Render("RESULT") + "   " + grade,
		"",
	}
	if r.lifeMode {
		lines = append(lines, row("Score", fmt.Sprintf("%d", a.Score)))
	}
	lines = append(lines,
		row("Hits / Misses", fmt.Sprintf("%d / %d", r.ended.Hits, r.ended.Misses)),
		row("Time", r.ended.Clock()),
		row("Final interval", fmt.Sprintf("%dms", r.ended.FinalInterval.Milliseconds())),
		row("Accuracy", fmt.Sprintf("%.1f%%", a.Accuracy)),
		row("Avg distance", fmt.Sprintf("%.1fpx", a.AvgDistance)),
	)
	if a.Verdict != precision.VerdictInsufficient {
		lines = append(lines, row("Deviation", fmt.Sprintf("%+.1f%%", a.Deviation)))
	}
	lines = append(lines, "", a.Feedback)
	if a.Recommendation != "" {
		lines = append(lines, titleStyle.Render(a.Recommendation))
	}

	var extra bytes.Buffer
	if len(a.Conversions) > 0 {
		extra.WriteString("\n")
		if err := stats.RenderConversions(&extra, a.Conversions, m.config.Game); err != nil {
			m.log.Error().Err(err).Msg("failed to render conversions")
		}
	}
	if len(r.timeline.Points) > 1 {
		acc, dist := r.timeline.Series()
		width := stats.PlotWidthFor(min(m.width, 72))
		if err := (stats.Plot{Title: "Accuracy over time", Series: []stats.Series{{Name: "Accuracy", Values: acc}}, Width: width, Height: plotHeight}).Render(&extra); err != nil {
			m.log.Error().Err(err).Msg("failed to render accuracy plot")
		}
		if err := (stats.Plot{Title: "Distance over time (px)", Series: []stats.Series{{Name: "Distance", Values: dist}}, Width: width, Height: plotHeight}).Render(&extra); err != nil {
			m.log.Error().Err(err).Msg("failed to render distance plot")
		}
	}
	if extra.Len() > 0 {
		lines = append(lines, strings.TrimRight(extra.String(), "\n"))
	}

	if m.phase == phaseNaming {
		lines = append(lines, "", titleStyle.Render("Register your score"), m.nameInput.View())
	}
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	content := strings.Join(lines, "\n")
	bodyHeight := max(1, m.height-footerLines)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + m.renderFooter()
}
