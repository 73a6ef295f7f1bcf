package statsui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/findsens/internal/grid"
	"github.com/verte-zerg/findsens/internal/model"
)

const dateLayout = "2006-01-02"

const (
	fieldMode = iota
	fieldLife
	fieldSince
	fieldLast
	fieldWindow
)

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Mode (standard/small): "),
		newFilterInput("Life only (y/n): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[fieldMode].SetValue(m.cfg.Mode)
	if m.cfg.LifeOnly {
		m.filterInputs[fieldLife].SetValue("y")
	} else {
		m.filterInputs[fieldLife].SetValue("n")
	}
	if m.cfg.Since != nil {
		m.filterInputs[fieldSince].SetValue(m.cfg.Since.Format(dateLayout))
	} else {
		m.filterInputs[fieldSince].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[fieldLast].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[fieldLast].SetValue("")
	}
	m.filterInputs[fieldWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) startFilter() tea.Cmd {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs)
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func parseFilter(inputs []textinput.Model) (model.StatsConfig, error) {
	var cfg model.StatsConfig

	mode := strings.ToLower(strings.TrimSpace(inputs[fieldMode].Value()))
	if mode != "" {
		if _, err := grid.ParseMode(mode); err != nil {
			return cfg, errors.New("invalid mode (use standard or small)")
		}
		cfg.Mode = mode
	}

	switch strings.ToLower(strings.TrimSpace(inputs[fieldLife].Value())) {
	case "", "n", "no":
	case "y", "yes":
		cfg.LifeOnly = true
	default:
		return cfg, errors.New("invalid life value (use y or n)")
	}

	if sinceInput := strings.TrimSpace(inputs[fieldSince].Value()); sinceInput != "" {
		parsed, err := time.ParseInLocation(dateLayout, sinceInput, time.Local)
		if err != nil {
			return cfg, errors.New("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}

	if lastInput := strings.TrimSpace(inputs[fieldLast].Value()); lastInput != "" {
		parsed, err := strconv.Atoi(lastInput)
		if err != nil || parsed < 0 {
			return cfg, errors.New("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}

	if windowInput := strings.TrimSpace(inputs[fieldWindow].Value()); windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil {
			return cfg, errors.New("invalid curve window (use integer)")
		}
		if parsed < 1 {
			return cfg, errors.New("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
