package timeloop

import (
	"errors"

	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
)

// TurnRecord describes one live command after its tick ran.
type TurnRecord struct {
	Tick    uint64 // simulation tick that consumed the command
	Turn    int    // round turn the command was issued on
	Slot    int    // scheduler slot of the live character
	Command sim.Command
	Hash    uint64 // snapshot hash after the tick
}

// Result summarises a finished level attempt.
type Result struct {
	LevelID   string
	LevelName string
	Outcome   sim.Outcome
	Moves     int // live commands issued since the level (re)started
	Ghosts    int
	Rollovers int
	Snapshot  sim.Snapshot
}

// Observer receives level lifecycle notifications from a Game.
// Calls happen on the goroutine that drives Step.
type Observer interface {
	LevelStarted(lvl *levels.Level)
	CommandIssued(rec TurnRecord)
	LevelRestarted(tick uint64)
	LevelEnded(res Result)
}

// MultiObserver fans notifications out in order.
type MultiObserver []Observer

func (m MultiObserver) LevelStarted(lvl *levels.Level) {
	for _, o := range m {
		o.LevelStarted(lvl)
	}
}

func (m MultiObserver) CommandIssued(rec TurnRecord) {
	for _, o := range m {
		o.CommandIssued(rec)
	}
}

func (m MultiObserver) LevelRestarted(tick uint64) {
	for _, o := range m {
		o.LevelRestarted(tick)
	}
}

func (m MultiObserver) LevelEnded(res Result) {
	for _, o := range m {
		o.LevelEnded(res)
	}
}

// Close closes every observer that holds resources.
func (m MultiObserver) Close() error {
	var errs []error
	for _, o := range m {
		if c, ok := o.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// nopObserver ignores everything.
type nopObserver struct{}

func (nopObserver) LevelStarted(*levels.Level) {}
func (nopObserver) CommandIssued(TurnRecord)   {}
func (nopObserver) LevelRestarted(uint64)      {}
func (nopObserver) LevelEnded(Result)          {}
