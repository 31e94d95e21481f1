package timeloop

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
	"github.com/vovakirdan/tui-timeloop/internal/journal"
)

// ErrDiverged is returned when a replayed journal does not reproduce the
// recorded state.
var ErrDiverged = errors.New("replay diverged")

// VerifyReport summarises a verified journal.
type VerifyReport struct {
	LevelID   string
	LevelName string
	Commands  int
	Restarts  int
	Outcome   sim.Outcome
	FinalHash uint64
}

// Verify re-simulates a journal against the level it names and checks the
// state hash after every recorded command.
func Verify(records []journal.Record, campaign *levels.Campaign, opts sim.Options) (VerifyReport, error) {
	var rep VerifyReport
	if len(records) == 0 {
		return rep, errors.New("empty journal")
	}
	head := records[0]
	if head.Type != journal.TypeHeader {
		return rep, fmt.Errorf("journal starts with %q, want %q", head.Type, journal.TypeHeader)
	}
	rep.LevelID = head.LevelID
	rep.LevelName = head.LevelName

	lvl, err := campaign.FindByID(head.LevelID)
	if err != nil {
		return rep, err
	}
	state, err := sim.New(lvl.Terrain.Clone(), opts)
	if err != nil {
		return rep, err
	}

	for i, rec := range records[1:] {
		line := i + 2
		switch rec.Type {
		case journal.TypeTurn:
			if err := replayTurn(state, rec); err != nil {
				return rep, fmt.Errorf("line %d: %w", line, err)
			}
			rep.Commands++

		case journal.TypeRestart:
			state.Restart()
			rep.Restarts++

		case journal.TypeOutcome:
			if got := state.Outcome.String(); got != rec.Outcome {
				return rep, fmt.Errorf("line %d: %w: journal outcome %s, replay %s", line, ErrDiverged, rec.Outcome, got)
			}

		default:
			return rep, fmt.Errorf("line %d: unexpected record type %q", line, rec.Type)
		}
	}

	snap := state.Snapshot()
	rep.Outcome = state.Outcome
	rep.FinalHash = snap.Hash()
	return rep, nil
}

// replayTurn idles the state up to the recorded tick, then applies the
// recorded command and compares hashes.
func replayTurn(state *sim.State, rec journal.Record) error {
	if rec.Tick <= state.Clock {
		return fmt.Errorf("tick %d is not after %d", rec.Tick, state.Clock)
	}
	cmd, err := sim.ParseCommand(rec.Command)
	if err != nil {
		return err
	}
	for state.Clock < rec.Tick-1 {
		state.Tick(sim.TickInput{})
		if state.Outcome != sim.OutcomePlaying {
			return fmt.Errorf("%w: level ended at tick %d before the command at %d", ErrDiverged, state.Clock, rec.Tick)
		}
	}

	res := state.Tick(sim.TickInput{Command: &cmd})
	if !res.Used {
		return fmt.Errorf("%w: command %s not taken at tick %d", ErrDiverged, rec.Command, rec.Tick)
	}
	snap := state.Snapshot()
	if got := journal.FormatHash(snap.Hash()); got != rec.Hash {
		return fmt.Errorf("%w: tick %d: journal hash %s, replay %s", ErrDiverged, rec.Tick, rec.Hash, got)
	}
	return nil
}
