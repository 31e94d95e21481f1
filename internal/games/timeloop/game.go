// Package timeloop provides the time-loop puzzle game for the platform.
// Each round the player gets a fixed number of turns; when they run out the
// player's moves are replayed by a ghost while a fresh copy starts over.
package timeloop

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-timeloop/internal/core"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
	"github.com/vovakirdan/tui-timeloop/internal/registry"
)

// ID is the registry identifier of the game.
const ID = "timeloop"

// Phase is the presentation phase of the current level.
type Phase int

const (
	PhaseIntro   Phase = iota // level title shown, scheduler held
	PhasePlaying              // accepting commands
	PhaseSolved               // waiting to advance
	PhaseFailed               // out of ghosts, waiting for restart
	PhaseDone                 // campaign finished
	PhaseError                // levels could not be loaded
)

// Options configures a Game.
type Options struct {
	LevelsDir         string // campaign directory, empty for the built-in one
	StartAt           string // level id to start from
	DefaultGhostLimit int
	IntroTicks        int // ticks the title is held; 0 skips the intro
	Debug             bool
	Logger            *log.Logger
	Observer          Observer
}

// DefaultOptions returns options for the built-in campaign.
func DefaultOptions() Options {
	return Options{
		DefaultGhostLimit: sim.DefaultOptions().DefaultGhostLimit,
		IntroTicks:        45,
	}
}

// Game implements registry.Game for the time-loop campaign.
type Game struct {
	opts     Options
	log      *log.Logger
	observer Observer

	campaign *levels.Campaign
	level    levels.Level
	state    *sim.State
	terrain  []glyph

	phase      Phase
	phaseTicks int
	moves      int
	solved     map[string]bool
	loadErr    error

	status      string
	statusColor core.Color

	paused bool
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New(DefaultOptions())
	})
}

// New creates a game. Levels are loaded on Reset.
func New(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	var observer Observer = nopObserver{}
	if opts.Observer != nil {
		observer = opts.Observer
	}
	return &Game{
		opts:     opts,
		log:      logger,
		observer: observer,
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Time Loop"
}

// Reset opens the campaign and loads its first level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.solved = make(map[string]bool)
	g.paused = false
	g.loadErr = nil
	g.state = nil

	c, err := g.openCampaign()
	if err != nil {
		g.fail(err)
		return
	}
	g.campaign = c

	var lvl levels.Level
	if g.opts.StartAt != "" {
		lvl, err = c.FindByID(g.opts.StartAt)
	} else {
		lvl, err = c.LoadCurrent()
	}
	if err != nil {
		g.fail(err)
		return
	}
	g.startLevel(lvl)
}

func (g *Game) openCampaign() (*levels.Campaign, error) {
	if g.opts.LevelsDir != "" {
		return levels.OpenDir(g.opts.LevelsDir)
	}
	return levels.Default()
}

func (g *Game) fail(err error) {
	g.loadErr = err
	g.phase = PhaseError
	g.log.Error("could not load levels", "error", err)
}

// startLevel builds a fresh simulation for lvl.
func (g *Game) startLevel(lvl levels.Level) {
	state, err := sim.New(lvl.Terrain.Clone(), sim.Options{DefaultGhostLimit: g.opts.DefaultGhostLimit})
	if err != nil {
		g.fail(err)
		return
	}
	g.level = lvl
	g.state = state
	g.moves = 0
	g.phaseTicks = 0
	g.setStatus("", core.ColorDefault)
	if g.opts.IntroTicks > 0 {
		g.phase = PhaseIntro
	} else {
		g.phase = PhasePlaying
	}

	g.log.Info("level started", "id", lvl.ID, "title", lvl.Title(), "ghosts", state.GhostLimit, "turns", lvl.Terrain.TurnLimit)
	g.observer.LevelStarted(&g.level)
}

// restartLevel returns the current level to its initial state. After an
// outcome the attempt is over, so the level starts again from its intro.
func (g *Game) restartLevel() {
	if g.phase == PhaseSolved || g.phase == PhaseFailed {
		g.startLevel(g.level)
		return
	}
	tick := g.state.Clock
	g.state.Restart()
	g.moves = 0
	g.phaseTicks = 0
	g.phase = PhasePlaying
	g.setStatus("The loop unwinds.", core.ColorGray)

	g.log.Info("level restarted", "id", g.level.ID)
	g.observer.LevelRestarted(tick)
}

// advance moves to the next campaign level.
func (g *Game) advance() {
	lvl, err := g.campaign.LoadNext()
	if errors.Is(err, levels.ErrCampaignComplete) {
		g.phase = PhaseDone
		g.log.Info("campaign complete", "solved", len(g.solved))
		return
	}
	if err != nil {
		g.fail(err)
		return
	}
	g.startLevel(lvl)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.phase == PhaseError {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.phase != PhaseDone {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		if g.phase == PhaseDone {
			g.restartCampaign()
		} else {
			g.restartLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionNextLevel) && g.opts.Debug && g.phase != PhaseDone {
		g.log.Debug("level skipped", "id", g.level.ID)
		g.advance()
		return core.StepResult{State: g.State()}
	}

	switch g.phase {
	case PhaseIntro:
		g.state.Tick(sim.TickInput{Hold: true})
		g.phaseTicks++
		if g.phaseTicks >= g.opts.IntroTicks || anyCommandKey(in) {
			g.phase = PhasePlaying
		}

	case PhasePlaying:
		g.play(in)

	case PhaseSolved:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionWait) {
			g.advance()
		}
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) restartCampaign() {
	if err := g.campaign.Seek(0); err != nil {
		g.fail(err)
		return
	}
	g.solved = make(map[string]bool)
	lvl, err := g.campaign.LoadCurrent()
	if err != nil {
		g.fail(err)
		return
	}
	g.startLevel(lvl)
}

// play runs one simulation tick with the command mapped from in, if any.
func (g *Game) play(in core.InputFrame) {
	cmd, ok := commandFor(in)

	var tin sim.TickInput
	if ok {
		tin.Command = &cmd
	}
	turn := g.state.Turn.Turn
	slot := g.state.Turn.ActiveSlot()

	res := g.state.Tick(tin)
	g.describe(res)

	if res.Used {
		g.moves++
		snap := g.state.Snapshot()
		g.observer.CommandIssued(TurnRecord{
			Tick:    res.Tick,
			Turn:    turn,
			Slot:    slot,
			Command: cmd,
			Hash:    snap.Hash(),
		})
	}
	if res.Has(sim.EventRollover) {
		g.log.Debug("rollover", "id", g.level.ID, "ghosts", g.state.Ghosts(), "left", g.state.GhostLimit)
	}

	switch g.state.Outcome {
	case sim.OutcomeSolved:
		g.solved[g.level.ID] = true
		g.phase = PhaseSolved
		g.phaseTicks = 0
		g.log.Info("level solved", "id", g.level.ID, "moves", g.moves, "ghosts", g.state.Ghosts())
		g.observer.LevelEnded(g.result())
	case sim.OutcomeOutOfGhosts:
		g.phase = PhaseFailed
		g.log.Info("out of ghosts", "id", g.level.ID, "moves", g.moves)
		g.observer.LevelEnded(g.result())
	}
}

func (g *Game) result() Result {
	return Result{
		LevelID:   g.level.ID,
		LevelName: g.level.Name,
		Outcome:   g.state.Outcome,
		Moves:     g.moves,
		Ghosts:    g.state.Ghosts(),
		Rollovers: g.state.Rollovers,
		Snapshot:  g.state.Snapshot(),
	}
}

// commandFor maps the first movement action in the frame to a command.
func commandFor(in core.InputFrame) (sim.Command, bool) {
	switch {
	case in.Has(core.ActionUp):
		return sim.Move(sim.North), true
	case in.Has(core.ActionRight):
		return sim.Move(sim.East), true
	case in.Has(core.ActionDown):
		return sim.Move(sim.South), true
	case in.Has(core.ActionLeft):
		return sim.Move(sim.West), true
	case in.Has(core.ActionWait):
		return sim.Wait(), true
	}
	return sim.Command{}, false
}

func anyCommandKey(in core.InputFrame) bool {
	_, ok := commandFor(in)
	return ok || in.Has(core.ActionConfirm)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    len(g.solved),
		GameOver: g.phase == PhaseDone || g.phase == PhaseError,
		Won:      g.phase == PhaseDone,
		Paused:   g.paused,
	}
}

// Phase returns the presentation phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Level returns the level being played.
func (g *Game) Level() levels.Level {
	return g.level
}

// Sim returns the simulation of the current level, or nil before Reset.
func (g *Game) Sim() *sim.State {
	return g.state
}

// Status returns the last status line.
func (g *Game) Status() string {
	return g.status
}

// Err returns the level loading error, if any.
func (g *Game) Err() error {
	return g.loadErr
}

// Close releases observer resources.
func (g *Game) Close() error {
	if c, ok := g.observer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ registry.Closer = (*Game)(nil)
