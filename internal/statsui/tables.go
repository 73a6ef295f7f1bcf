package statsui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/stats"
)

var (
	runColumns = []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Mode", Width: 8},
		{Title: "Life", Width: 4},
		{Title: "Hits", Width: 5},
		{Title: "Misses", Width: 6},
		{Title: "Acc", Width: 7},
		{Title: "Dist", Width: 6},
		{Title: "Score", Width: 6},
		{Title: "Grade", Width: 5},
	}
	leaderboardColumns = []table.Column{
		{Title: "Rank", Width: 4},
		{Title: "Name", Width: 16},
		{Title: "Country", Width: 10},
		{Title: "Score", Width: 6},
		{Title: "Acc", Width: 7},
		{Title: "Grade", Width: 5},
		{Title: "Date", Width: 10},
	}
)

func newTable() table.Model {
	t := table.New(table.WithHeight(1))
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// setTableData replaces rows before columns so a shrinking column set never
// renders stale cells.
func setTableData(t *table.Model, columns []table.Column, rows [][]string) {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r)
	}
	t.SetRows(nil)
	t.SetColumns(columns)
	t.SetRows(out)
	t.GotoTop()
}

func runRows(runs []model.RunAggregate) [][]string {
	_, rows := stats.RunRows(runs)
	return rows
}

func leaderboardRows(entries []model.LeaderboardEntry) [][]string {
	_, rows := stats.LeaderboardRows(entries)
	return rows
}
