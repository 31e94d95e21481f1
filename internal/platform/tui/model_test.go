package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-timeloop/internal/core"
)

// fakeGame records what the model asks of it.
type fakeGame struct {
	resets int
	steps  []core.InputFrame
	closed int
}

func (g *fakeGame) ID() string               { return "fake" }
func (g *fakeGame) Title() string            { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *fakeGame) State() core.GameState    { return core.GameState{Score: len(g.steps)} }
func (g *fakeGame) Render(dst *core.Screen)  { dst.DrawText(0, 0, "fake board") }
func (g *fakeGame) Close() error             { g.closed++; return nil }
func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps = append(g.steps, in.Clone())
	return core.StepResult{State: g.State()}
}

func newTestModel(g *fakeGame) Model {
	styles := NewStyles(lipgloss.NewRenderer(io.Discard))
	cfg := core.RuntimeConfig{ScreenW: 100, ScreenH: 10, TickRate: 30}
	return NewModel(g, cfg, Options{Logger: log.New(io.Discard), Styles: &styles})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelFeedsKeysToNextTick(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)
	m.Init()
	if g.resets != 1 {
		t.Fatalf("resets = %d, want 1", g.resets)
	}

	m, _ = update(t, m, runes("d"))
	m, _ = update(t, m, runes("."))
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
	m, _ = update(t, m, TickMsg{})

	if len(g.steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(g.steps))
	}
	if !g.steps[0].Has(core.ActionRight) || !g.steps[0].Has(core.ActionWait) {
		t.Errorf("first step missing actions: %v", g.steps[0].Actions)
	}
	if !g.steps[1].Empty() {
		t.Errorf("input not cleared between ticks: %v", g.steps[1].Actions)
	}
	if m.GameState().Score != 2 {
		t.Errorf("state not updated: %+v", m.GameState())
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)
	m.Init()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if g.resets != 1 {
		t.Errorf("resize reset the game")
	}
	if m.screen.Width() != 60 || m.screen.Height() != 20-helpHeight {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestModelViewHasHelpLine(t *testing.T) {
	m := newTestModel(&fakeGame{})
	view := m.View()

	lines := strings.Split(view, "\n")
	if len(lines) != 10 {
		t.Fatalf("view has %d lines, want 10", len(lines))
	}
	if !strings.HasPrefix(lines[0], "fake board") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[9], "quit") {
		t.Errorf("help line = %q", lines[9])
	}
}

func TestModelQuitClosesGameOnce(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)
	m.Init()

	m, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command is not tea.Quit")
	}
	m.quit()
	if g.closed != 1 {
		t.Errorf("closed = %d, want 1", g.closed)
	}
	if m.View() != "" {
		t.Error("view not empty after quit")
	}
	if _, cmd := update(t, m, TickMsg{}); cmd != nil {
		t.Error("tick after quit scheduled another tick")
	}
}
