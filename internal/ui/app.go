package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"github.com/five82/foldview/internal/config"
	"github.com/five82/foldview/internal/deck"
	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/gesture"
	"github.com/five82/foldview/internal/prefs"
	"github.com/five82/foldview/internal/render"
	"github.com/five82/foldview/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string // empty disables saving
	PollTick  time.Duration
	Logger    logr.Logger
	Metrics   flip.Recorder
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Model is the root application state for Bubble Tea. Update is the only
// place the flip controller and compositor are touched.
type Model struct {
	// Configuration
	store     *state.Store
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	frameTick time.Duration
	log       logr.Logger
	now       func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	canvas   canvas
	pixels   string
	status   string
	framing  bool // a frame tick is scheduled

	// Flip machinery
	source     *deck.Source
	controller *flip.Controller
	comp       *render.Compositor
	recognizer *gesture.Recognizer

	// Data state
	snapshot    state.Snapshot
	deckVersion uint64
	deckName    string
	pending     *state.Snapshot // newer deck waiting for the flips to settle
}

// New creates the model and loads the deck currently in the store.
func New(opts Options) (Model, error) {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultPollTick
	}
	frameTick := opts.Config.FrameInterval()
	if frameTick <= 0 {
		frameTick = DefaultFrameInterval
	}
	pointsPerCell := opts.Config.PointsPerCell
	if pointsPerCell <= 0 {
		pointsPerCell = 1
	}

	var snap state.Snapshot
	if opts.Store != nil {
		snap = opts.Store.Snapshot()
	}
	source, err := deck.NewSource(snap.Deck)
	if err != nil {
		return Model{}, fmt.Errorf("init page source: %w", err)
	}

	theme := GetTheme(opts.Prefs.Theme)
	comp := render.New(render.Options{
		Scale:      opts.Config.Scale,
		Background: theme.Paper(),
		Clock:      now,
		Logger:     log,
	})

	tuning := flip.DefaultTuning()
	tuning.SpeedThreshold = opts.Config.SpeedThreshold
	tuning.Duration = opts.Config.Duration
	tuning.Scale = opts.Config.Scale
	controller := flip.NewController(flip.Options{
		Orientation:   opts.Config.Orientation,
		Source:        source,
		Renderer:      comp,
		AllowEdgePeek: opts.Prefs.EdgePeek(opts.Config.AllowEdgePeek),
		Tuning:        tuning,
		Logger:        log,
		Metrics:       opts.Metrics,
	})

	cfg := opts.Config
	cfg.PointsPerCell = pointsPerCell
	return Model{
		store:       opts.Store,
		cfg:         cfg,
		prefs:       opts.Prefs,
		prefsPath:   opts.PrefsPath,
		pollTick:    pollTick,
		frameTick:   frameTick,
		log:         log.WithName("ui"),
		now:         now,
		keys:        DefaultKeyMap(),
		theme:       theme,
		source:      source,
		controller:  controller,
		comp:        comp,
		recognizer:  gesture.NewRecognizer(),
		snapshot:    snap,
		deckVersion: snap.Version,
		deckName:    snap.Deck.Name,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case frameMsg:
		return m.handleFrame(time.Time(msg))

	case completionMsg:
		m.controller.Complete(flip.Token(msg))
		m.applyPendingDeck()
		return m.afterControl()

	case tea.ResumeMsg:
		m.controller.Reload()
		return m.afterControl()

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.pixels != "" {
		b.WriteString(m.pixels)
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	c := newCanvas(msg.Width, msg.Height, m.cfg.PointsPerCell)
	bounds := c.Bounds()
	if bounds != m.controller.Bounds() {
		// Leaves in the air were laid out for the old page size.
		m.controller.OnOrientationChange()
		m.comp.Resize(bounds)
		m.controller.Resize(bounds)
	}
	m.canvas = c
	m.ready = true
	return m.afterControl()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.comp.SetBackground(m.theme.Paper())
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m.afterControl()

	case key.Matches(msg, m.keys.Next):
		m.flick(geometry.DirectionStart)
		return m.afterControl()

	case key.Matches(msg, m.keys.Prev):
		m.flick(geometry.DirectionEnd)
		return m.afterControl()

	case key.Matches(msg, m.keys.First):
		m.controller.SetCurrentPage(0)
		return m.afterControl()

	case key.Matches(msg, m.keys.Last):
		m.controller.SetCurrentPage(m.controller.PageCount() - 1)
		return m.afterControl()

	case key.Matches(msg, m.keys.TogglePeek):
		allow := !m.controller.AllowEdgePeek()
		m.controller.SetAllowEdgePeek(allow)
		m.prefs = m.prefs.WithEdgePeek(allow)
		m.savePrefs()
		if allow {
			m.status = "edge peek on"
		} else {
			m.status = "edge peek off"
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.controller.Reload()
		m.status = "reloaded"
		return m.afterControl()

	case key.Matches(msg, m.keys.Cancel):
		m.controller.ClearAll()
		return m.afterControl()

	case key.Matches(msg, m.keys.Suspend):
		m.controller.OnSuspend()
		m.redraw()
		return m, tea.Suspend
	}

	return m, nil
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Error(err, "save prefs", "path", m.prefsPath)
	}
}

// handleFrame advances the compositor clock. Completions due at this frame
// are redispatched as their own messages so they reach the controller
// serialized behind any input already queued.
func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	m.framing = false
	tokens := m.comp.Tick(now)
	cmds := make([]tea.Cmd, 0, len(tokens)+1)
	for _, tok := range tokens {
		cmds = append(cmds, completeCmd(tok))
	}
	m.redraw()
	if cmd := m.scheduleFrame(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// afterControl repaints after the controller changed and keeps the frame
// loop running while anything animates.
func (m Model) afterControl() (tea.Model, tea.Cmd) {
	m.redraw()
	return m, m.scheduleFrame()
}

func (m *Model) scheduleFrame() tea.Cmd {
	if m.framing || !m.comp.Animating() {
		return nil
	}
	m.framing = true
	return frameCmd(m.frameTick)
}

func (m *Model) redraw() {
	if !m.ready {
		return
	}
	if m.canvas.cols == 0 || m.canvas.rows == 0 {
		m.pixels = ""
		return
	}
	img, err := m.comp.Frame()
	if err != nil {
		m.log.Error(err, "render frame")
		m.pixels = blankCanvas(m.theme.Background, m.canvas.cols, m.canvas.rows)
		return
	}
	m.pixels = renderPixels(img, m.canvas.cols, m.canvas.rows)
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// handleSnapshot records the store state. A new deck version replaces the
// data source once no flip is in flight.
func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	if snap.HasDeck && snap.Version != m.deckVersion {
		m.pending = &snap
	}
	if !m.applyPendingDeck() {
		return m, nil
	}
	return m.afterControl()
}

func (m *Model) applyPendingDeck() bool {
	if m.pending == nil || !m.controller.Idle() {
		return false
	}
	snap := m.pending
	m.pending = nil
	m.source = m.source.WithDeck(snap.Deck)
	m.deckVersion = snap.Version
	m.deckName = snap.Deck.Name
	m.controller.SetSource(m.source)
	m.status = fmt.Sprintf("deck updated (%d pages)", snap.Deck.Len())
	m.log.V(1).Info("deck swapped", "version", snap.Version, "pages", snap.Deck.Len())
	return true
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type frameMsg time.Time

type completionMsg flip.Token

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func completeCmd(tok flip.Token) tea.Cmd {
	return func() tea.Msg {
		return completionMsg(tok)
	}
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
