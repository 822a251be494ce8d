package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr/testr"

	"github.com/five82/foldview/internal/config"
	"github.com/five82/foldview/internal/deck"
	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/prefs"
	"github.com/five82/foldview/internal/state"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func keyMsg(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func specialKey(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func newTestModel(t *testing.T, pages int, mutate ...func(*Options)) (Model, *fakeClock, *state.Store) {
	t.Helper()
	store := &state.Store{}
	d := deck.Sample(pages, 7)
	store.Update(&d, nil)

	cfg := config.Default()
	cfg.FrameRate = 1000

	clk := newFakeClock()
	opts := Options{
		Store:  store,
		Config: cfg,
		Logger: testr.New(t),
		Clock:  clk.now,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 12})
	return m, clk, store
}

// runCmd executes cmd and everything it batches, returning the messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle drives frames and redispatched completions until nothing is in
// flight.
func settle(t *testing.T, m Model, clk *fakeClock) Model {
	t.Helper()
	for i := 0; i < 20; i++ {
		clk.advance(time.Second)
		var cmd tea.Cmd
		m, cmd = update(m, frameMsg(clk.now()))
		for _, msg := range runCmd(cmd) {
			if c, ok := msg.(completionMsg); ok {
				m, _ = update(m, c)
			}
		}
		if m.controller.Idle() && !m.comp.Animating() {
			return m
		}
	}
	t.Fatalf("flips never settled: mode=%s units=%d", m.controller.Mode(), len(m.controller.Units()))
	return m
}

func TestResizeLaysOutController(t *testing.T) {
	m, _, _ := newTestModel(t, 3)

	if got, want := m.controller.Bounds(), (geometry.Rect{W: 160, H: 80}); got != want {
		t.Fatalf("controller bounds = %+v, want %+v", got, want)
	}
	view := m.View()
	if !strings.Contains(view, "page 1/3") {
		t.Fatalf("view missing page indicator:\n%s", view)
	}
	if lines := strings.Count(view, "\n") + 1; lines != 12 {
		t.Fatalf("view has %d lines, want 12", lines)
	}
}

func TestKeyFlipTurnsPage(t *testing.T) {
	m, clk, _ := newTestModel(t, 3)

	m, cmd := update(m, specialKey(tea.KeyRight))
	if cmd == nil {
		t.Fatal("expected a frame tick after a flip starts")
	}
	if got := m.controller.CurrentPage(); got != 1 {
		t.Fatalf("CurrentPage during flip = %d, want 1", got)
	}

	m = settle(t, m, clk)
	if got := m.controller.CurrentPage(); got != 1 {
		t.Fatalf("CurrentPage after settle = %d, want 1", got)
	}

	m, _ = update(m, specialKey(tea.KeyLeft))
	m = settle(t, m, clk)
	if got := m.controller.CurrentPage(); got != 0 {
		t.Fatalf("CurrentPage after flipping back = %d, want 0", got)
	}
}

func TestKeyFlipPastLastPageBouncesBack(t *testing.T) {
	m, clk, _ := newTestModel(t, 3)

	m, _ = update(m, keyMsg("G"))
	if got := m.controller.CurrentPage(); got != 2 {
		t.Fatalf("CurrentPage after G = %d, want 2", got)
	}
	m, _ = update(m, specialKey(tea.KeyRight))
	m = settle(t, m, clk)
	if got := m.controller.CurrentPage(); got != 2 {
		t.Fatalf("edge flip moved to page %d, want 2", got)
	}

	m, _ = update(m, keyMsg("g"))
	if got := m.controller.CurrentPage(); got != 0 {
		t.Fatalf("CurrentPage after g = %d, want 0", got)
	}
}

func TestMouseDragTurnsPage(t *testing.T) {
	m, clk, _ := newTestModel(t, 3)

	press := tea.MouseMsg{X: 30, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = update(m, press)
	for _, x := range []int{26, 20, 12, 6} {
		clk.advance(10 * time.Millisecond)
		m, _ = update(m, tea.MouseMsg{X: x, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	}
	if len(m.controller.Units()) != 1 {
		t.Fatalf("drag should have started one flip, got %d", len(m.controller.Units()))
	}
	clk.advance(10 * time.Millisecond)
	m, _ = update(m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})

	m = settle(t, m, clk)
	if got := m.controller.CurrentPage(); got != 1 {
		t.Fatalf("CurrentPage after drag = %d, want 1", got)
	}
}

func TestMousePressOutsideCanvasIgnored(t *testing.T) {
	m, clk, _ := newTestModel(t, 3)

	m, _ = update(m, tea.MouseMsg{X: 30, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	clk.advance(10 * time.Millisecond)
	m, _ = update(m, tea.MouseMsg{X: 2, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if n := len(m.controller.Units()); n != 0 {
		t.Fatalf("press on the header started %d flips", n)
	}
}

func TestSnapshotSwapsDeckWhenIdle(t *testing.T) {
	m, _, store := newTestModel(t, 3)

	bigger := deck.Sample(6, 11)
	store.Update(&bigger, nil)
	m, _ = update(m, snapshotMsg(store.Snapshot()))

	if got := m.controller.PageCount(); got != 6 {
		t.Fatalf("PageCount = %d, want 6", got)
	}
	if m.deckVersion != store.Version() {
		t.Fatalf("deckVersion = %d, want %d", m.deckVersion, store.Version())
	}
}

func TestSnapshotWaitsForFlipsToSettle(t *testing.T) {
	m, clk, store := newTestModel(t, 3)

	m, _ = update(m, specialKey(tea.KeyRight))
	smaller := deck.Sample(2, 5)
	store.Update(&smaller, nil)
	m, _ = update(m, snapshotMsg(store.Snapshot()))
	if got := m.controller.PageCount(); got != 3 {
		t.Fatalf("deck swapped mid-flip: PageCount = %d, want 3", got)
	}

	m = settle(t, m, clk)
	if got := m.controller.PageCount(); got != 2 {
		t.Fatalf("PageCount after settle = %d, want 2", got)
	}
	if got := m.controller.CurrentPage(); got != 1 {
		t.Fatalf("CurrentPage = %d, want 1", got)
	}
}

func TestSnapshotErrorShownInHeader(t *testing.T) {
	m, _, store := newTestModel(t, 3)
	m, _ = update(m, tea.WindowSizeMsg{Width: 160, Height: 12})

	store.Update(nil, deck.ErrEmptyDeck)
	m, _ = update(m, snapshotMsg(store.Snapshot()))
	if !strings.Contains(m.View(), "deck:") {
		t.Fatalf("header does not report the deck error:\n%s", m.View())
	}
	if got := m.controller.PageCount(); got != 3 {
		t.Fatalf("failed poll replaced the deck: PageCount = %d", got)
	}
}

func TestTogglePeekSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m, _, _ := newTestModel(t, 3, func(o *Options) { o.PrefsPath = path })

	if m.controller.AllowEdgePeek() {
		t.Fatal("edge peek should start off")
	}
	m, _ = update(m, keyMsg("p"))
	if !m.controller.AllowEdgePeek() {
		t.Fatal("p did not enable edge peek")
	}

	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if !saved.EdgePeek(false) {
		t.Fatal("saved prefs do not enable edge peek")
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m, _, _ := newTestModel(t, 3, func(o *Options) {
		o.PrefsPath = path
		o.Prefs = prefs.Prefs{Theme: "Kanagawa"}
	})

	m, _ = update(m, keyMsg("T"))
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Slate" {
		t.Fatalf("saved theme = %q, want Slate", saved.Theme)
	}
}

func TestEscapeCancelsFlips(t *testing.T) {
	m, _, _ := newTestModel(t, 3)

	m, _ = update(m, specialKey(tea.KeyRight))
	if m.controller.Idle() {
		t.Fatal("flip did not start")
	}
	m, _ = update(m, specialKey(tea.KeyEsc))
	if !m.controller.Idle() {
		t.Fatal("esc left flips in flight")
	}
	if n := len(m.controller.Units()); n != 0 {
		t.Fatalf("esc left %d units", n)
	}
	// The page index already named the target while the leaf was in the air.
	if got := m.controller.CurrentPage(); got != 1 {
		t.Fatalf("CurrentPage = %d, want 1", got)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t, 3)

	m, _ = update(m, keyMsg("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m, _ = update(m, specialKey(tea.KeyRight))
	if m.showHelp {
		t.Fatal("any key should close help")
	}
	if !m.controller.Idle() {
		t.Fatal("key that closed help also flipped the page")
	}
}

func TestResizeCancelsFlipsInFlight(t *testing.T) {
	m, _, _ := newTestModel(t, 3)

	m, _ = update(m, specialKey(tea.KeyRight))
	m, _ = update(m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !m.controller.Idle() {
		t.Fatal("resize left flips in flight")
	}
	if got, want := m.controller.Bounds(), (geometry.Rect{W: 240, H: 144}); got != want {
		t.Fatalf("bounds = %+v, want %+v", got, want)
	}
}
