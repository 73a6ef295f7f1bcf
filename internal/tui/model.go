// Package tui provides the Bubble Tea aim training interface.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/findsens/internal/engine"
	"github.com/verte-zerg/findsens/internal/generator"
	"github.com/verte-zerg/findsens/internal/grid"
	"github.com/verte-zerg/findsens/internal/model"
	"github.com/verte-zerg/findsens/internal/precision"
	"github.com/verte-zerg/findsens/internal/store"
)

const (
	// timelineEvery is the spacing of accuracy snapshots for the result plots.
	timelineEvery = 2 * time.Second
	hudLines      = 2
	footerLines   = 1
	nameLimit     = 16
)

type phase int

const (
	phaseReady phase = iota
	phasePlaying
	phaseNaming
	phaseResult
)

// RunStore persists finished runs and leaderboard entries.
type RunStore interface {
	InsertRun(ctx context.Context, run model.RunRecord) (int64, error)
	SaveRanking(ctx context.Context, entry model.LeaderboardEntry) (model.LeaderboardEntry, error)
}

// Options wires the collaborators of a Model. Zero values pick defaults.
type Options struct {
	Config model.Config
	Engine engine.Config
	Table  precision.Table
	Store  RunStore
	Picker engine.Picker
	Clock  engine.Clock
	Logger zerolog.Logger
}

type runResult struct {
	startedAt time.Time
	ended     engine.SessionEnded
	lifeMode  bool
	analysis  precision.Analysis
	timeline  precision.Timeline
}

// Model implements the Bubble Tea aim training UI.
type Model struct {
	config      model.Config
	mode        grid.Mode
	table       precision.Table
	store       RunStore
	engine      *engine.Engine
	clock       engine.Clock
	log         zerolog.Logger
	queue       *eventQueue
	unsubscribe func()

	width  int
	height int
	layout grid.Layout

	phase      phase
	lifeMode   bool
	snap       engine.Snapshot
	startedAt  time.Time
	samples    precision.Samples
	timeline   precision.Timeline
	nextSample time.Duration

	result    *runResult
	nameInput textinput.Model
	ranked    *model.LeaderboardEntry
	notice    string
}

// NewModel constructs the training UI and its engine.
func NewModel(opts Options) (*Model, error) {
	cfg := opts.Config
	mode, err := grid.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	cols, rows := mode.Dimensions()

	picker := opts.Picker
	if picker == nil {
		genOpts := []generator.Option{}
		if cfg.MinTravel > 0 {
			genOpts = append(genOpts, generator.WithMinTravel(cols, cfg.MinTravel))
		}
		if cfg.Seed != 0 {
			picker = generator.NewWithSeed(cfg.Seed, genOpts...)
		} else {
			picker = generator.New(genOpts...)
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = engine.WallClock()
	}
	table := opts.Table
	if len(table.Games) == 0 {
		table = precision.DefaultTable()
	}
	if cfg.Game != "" {
		if _, ok := table.Lookup(cfg.Game); !ok {
			return nil, errors.Wrapf(precision.ErrUnknownGame, "%q", cfg.Game)
		}
	}

	board := engine.BoardFunc(func() int { return cols * rows })
	eng, err := engine.New(board, picker,
		engine.WithConfig(opts.Engine),
		engine.WithClock(clock),
		engine.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Prompt = "Name: "
	input.Placeholder = store.DefaultName
	input.CharLimit = nameLimit

	m := &Model{
		config:    cfg,
		mode:      mode,
		table:     table,
		store:     opts.Store,
		engine:    eng,
		clock:     clock,
		log:       opts.Logger,
		queue:     newEventQueue(),
		lifeMode:  cfg.LifeMode,
		nameInput: input,
	}
	m.unsubscribe = eng.Subscribe(m.queue.push)
	m.layout = grid.NewLayout(mode, 0, hudLines, 80, 24-hudLines-footerLines)
	m.snap = eng.Snapshot()
	return m, nil
}

// Close stops the engine and detaches from its events.
func (m *Model) Close() {
	m.engine.Stop()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.queue.wait()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout = grid.NewLayout(m.mode, 0, hudLines, msg.Width, msg.Height-hudLines-footerLines)
		return m, nil
	case eventsMsg:
		for _, ev := range msg {
			m.apply(ev)
		}
		return m, m.queue.wait()
	case tea.MouseMsg:
		if m.phase == phasePlaying && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Close()
		return m, tea.Quit
	}
	switch m.phase {
	case phaseReady:
		switch msg.String() {
		case " ", "enter":
			m.start()
		case "l":
			m.lifeMode = !m.lifeMode
		case "q", "esc":
			m.Close()
			return m, tea.Quit
		}
	case phasePlaying:
		switch msg.String() {
		case " ", "esc":
			m.engine.Stop()
		}
	case phaseNaming:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitName()
			return m, nil
		case tea.KeyEsc:
			m.nameInput.Blur()
			m.phase = phaseResult
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	case phaseResult:
		switch msg.String() {
		case " ", "enter", "r":
			m.phase = phaseReady
			m.result = nil
			m.ranked = nil
			m.notice = ""
		case "q", "esc":
			m.Close()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) start() {
	m.samples.Reset()
	m.timeline = precision.Timeline{}
	m.nextSample = timelineEvery
	m.startedAt = m.clock.Now()
	m.phase = phasePlaying
	m.engine.Start(engine.StartOptions{LifeMode: m.lifeMode})
	m.snap = m.engine.Snapshot()
}

func (m *Model) apply(ev engine.Event) {
	m.snap = m.engine.Snapshot()
	switch ev := ev.(type) {
	case engine.Tick:
		if m.phase == phasePlaying && ev.Elapsed >= m.nextSample {
			m.timeline.Record(ev.Elapsed, m.snap.Hits, m.snap.Misses, m.samples.PixelDistances)
			m.nextSample += timelineEvery
		}
	case engine.SessionEnded:
		if m.phase == phasePlaying {
			m.finish(ev)
		}
	}
}

// click routes a left click to the engine and, on a hit, records where it
// landed relative to the target and the previous target.
func (m *Model) click(x, y int) {
	idx, ok := m.layout.CellAt(x, y)
	if !ok {
		idx = engine.NoTarget
	}
	j := m.engine.HandleClick(idx, m.clock.Now())
	if j.Verdict == engine.VerdictHit {
		tx, ty := m.layout.CenterPx(j.Target)
		cx, cy := grid.ToPx(x, y)
		var prev *precision.Point
		if j.Previous != engine.NoTarget {
			px, py := m.layout.CenterPx(j.Previous)
			prev = &precision.Point{X: px, Y: py}
		}
		m.samples.Record(prev, precision.Point{X: tx, Y: ty}, precision.Point{X: cx, Y: cy})
	}
	m.log.Debug().Int("cell", idx).Int("target", j.Target).Int("verdict", int(j.Verdict)).Msg("click")
	m.snap = m.engine.Snapshot()
}

func (m *Model) finish(ev engine.SessionEnded) {
	if n := len(m.timeline.Points); n == 0 || m.timeline.Points[n-1].Elapsed < ev.Elapsed {
		m.timeline.Record(ev.Elapsed, ev.Hits, ev.Misses, m.samples.PixelDistances)
	}
	analysis, err := m.table.Analyze(precision.Input{
		Hits:           ev.Hits,
		Misses:         ev.Misses,
		FinalInterval:  ev.FinalInterval,
		OffsetRatios:   m.samples.OffsetRatios,
		PixelDistances: m.samples.PixelDistances,
		CurrentSens:    m.config.Sens,
		Game:           m.config.Game,
	})
	if err != nil {
		m.log.Error().Err(err).Msg("failed to analyze run")
	}
	m.result = &runResult{
		startedAt: m.startedAt,
		ended:     ev,
		lifeMode:  m.lifeMode,
		analysis:  analysis,
		timeline:  m.timeline,
	}
	m.log.Info().
		Int("hits", ev.Hits).
		Int("misses", ev.Misses).
		Int("score", analysis.Score).
		Str("grade", string(analysis.Grade)).
		Str("reason", ev.Reason.String()).
		Msg("run finished")

	m.phase = phaseResult
	if m.store == nil {
		return
	}
	if _, err := m.store.InsertRun(context.Background(), m.runRecord()); err != nil {
		m.log.Error().Err(err).Msg("failed to save run")
		m.notice = "Could not save this run."
	}
	if m.result.lifeMode && ev.Hits+ev.Misses > 0 {
		m.phase = phaseNaming
		m.nameInput.SetValue("")
		m.nameInput.Focus()
	}
}

func (m *Model) runRecord() model.RunRecord {
	r := m.result
	return model.RunRecord{
		StartedAt:       r.startedAt,
		EndedAt:         r.startedAt.Add(r.ended.Elapsed),
		Mode:            string(m.mode),
		LifeMode:        r.lifeMode,
		Game:            m.config.Game,
		Sens:            m.config.Sens,
		DPI:             m.config.DPI,
		Hits:            r.ended.Hits,
		Misses:          r.ended.Misses,
		FinalIntervalMs: r.ended.FinalInterval.Milliseconds(),
		DurationMs:      r.ended.Elapsed.Milliseconds(),
		Score:           r.analysis.Score,
		Grade:           string(r.analysis.Grade),
		Accuracy:        r.analysis.Accuracy,
		AvgDistance:     r.analysis.AvgDistance,
		Deviation:       r.analysis.Deviation,
		EndReason:       r.ended.Reason.String(),
	}
}

func (m *Model) submitName() {
	m.nameInput.Blur()
	m.phase = phaseResult
	r := m.result
	entry, err := m.store.SaveRanking(context.Background(), model.LeaderboardEntry{
		Name:     strings.TrimSpace(m.nameInput.Value()),
		Score:    r.analysis.Score,
		Hits:     r.ended.Hits,
		Misses:   r.ended.Misses,
		Accuracy: r.analysis.Accuracy,
		Grade:    string(r.analysis.Grade),
		Mode:     string(m.mode),
	})
	if err != nil {
		m.log.Error().Err(err).Msg("failed to save ranking")
		m.notice = "Could not save the ranking."
		return
	}
	m.ranked = &entry
	m.notice = "Rank registered for " + entry.Name + "."
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch m.phase {
	case phaseNaming, phaseResult:
		return m.renderResult()
	}

	lines := []string{m.renderHUD(), ""}
	for len(lines) < m.layout.OriginY {
		lines = append(lines, "")
	}
	active := engine.NoTarget
	if m.phase == phasePlaying {
		active = m.snap.Active
	}
	indent := strings.Repeat(" ", m.layout.OriginX)
	for _, row := range renderBoard(m.layout, active) {
		lines = append(lines, indent+row)
	}
	if m.phase == phaseReady {
		lines = m.overlayReady(lines)
	}
	for len(lines) < m.height-footerLines {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderFooter())
	return strings.Join(lines, "\n")
}
