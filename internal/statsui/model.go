// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/stats"
	"github.com/verte-zerg/findsens/internal/store"
)

const (
	tabOverview = iota
	tabRuns
	tabLeaderboard
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store            *store.Store
	cfg              model.StatsConfig
	leaderboardLimit int

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	runs      table.Model
	board     table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig, leaderboardLimit int) *Model {
	m := &Model{
		store:            st,
		cfg:              cfg,
		leaderboardLimit: leaderboardLimit,
		tabs:             []string{"Overview", "Runs", "Leaderboard"},
		overview:         viewport.New(0, 0),
		runs:             newTable(),
		board:            newTable(),
	}
	m.initInputs()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m, m.startFilter()
		}
		return m.scroll(msg)
	}
	return m, nil
}

func (m *Model) scroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabRuns:
		m.runs, cmd = m.runs.Update(msg)
	case tabLeaderboard:
		m.board, cmd = m.board.Update(msg)
	default:
		switch msg.String() {
		case "g", "home":
			m.overview.GotoTop()
		case "G", "end":
			m.overview.GotoBottom()
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.runs, &m.board} {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.runs.Blur()
	m.board.Blur()
	switch m.activeTab {
	case tabRuns:
		m.runs.Focus()
	case tabLeaderboard:
		m.board.Focus()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts = append(parts, style.Render(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	mode := m.cfg.Mode
	if mode == "" {
		mode = "any"
	}
	life := "any"
	if m.cfg.LifeOnly {
		life = "only"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: mode=%s  life=%s  since=%s  last=%s  window=%d", mode, life, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	switch m.activeTab {
	case tabRuns:
		if len(m.report.Runs) == 0 {
			return "No runs found."
		}
		return tableMutedStyle.Render(m.runs.View())
	case tabLeaderboard:
		if len(m.report.Leaderboard) == 0 {
			return "Leaderboard is empty. Finish a life mode run to rank."
		}
		return tableMutedStyle.Render(m.board.View())
	default:
		return m.overview.View()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg, m.leaderboardLimit)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	setTableData(&m.runs, runColumns, runRows(report.Runs))
	setTableData(&m.board, leaderboardColumns, leaderboardRows(report.Leaderboard))
	m.updateLayout()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
}
