// Package sim provides the turn/replay engine for the time-loop puzzle game.
// It is UI-agnostic and deterministic: the same terrain and the same live
// commands always produce the same sequence of states.
package sim

import "fmt"

// Direction is one of the four grid directions.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name as produced by String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north", "n":
		return North, true
	case "east", "e":
		return East, true
	case "south", "s":
		return South, true
	case "west", "w":
		return West, true
	}
	return North, false
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
// North decreases Y, South increases Y (screen coordinates).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// CommandKind distinguishes moves from waits.
type CommandKind uint8

const (
	CommandWait CommandKind = iota
	CommandMove
)

// Command is a single recorded actor intent.
type Command struct {
	Kind CommandKind
	Dir  Direction // valid only when Kind is CommandMove
}

// Move returns a move command in the given direction.
func Move(d Direction) Command {
	return Command{Kind: CommandMove, Dir: d}
}

// Wait returns a wait command.
func Wait() Command {
	return Command{Kind: CommandWait}
}

// String returns "wait" or "move:<dir>".
func (c Command) String() string {
	if c.Kind == CommandMove {
		return "move:" + c.Dir.String()
	}
	return "wait"
}

// ParseCommand parses the output of Command.String.
func ParseCommand(s string) (Command, error) {
	if s == "wait" {
		return Wait(), nil
	}
	if len(s) > 5 && s[:5] == "move:" {
		if d, ok := ParseDirection(s[5:]); ok {
			return Move(d), nil
		}
	}
	return Command{}, fmt.Errorf("sim: invalid command %q", s)
}

// GridPosition is a cell address on the level grid.
// X increases to the right, Y increases downward.
type GridPosition struct {
	X int
	Y int
}

// P is a convenience constructor for GridPosition.
func P(x, y int) GridPosition {
	return GridPosition{X: x, Y: y}
}

// String returns a string representation of the position.
func (p GridPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Clamp saturates each axis into [0, dim-1].
func (p GridPosition) Clamp(w, h int) GridPosition {
	return GridPosition{
		X: clamp(p.X, 0, w-1),
		Y: clamp(p.Y, 0, h-1),
	}
}

// Unroll converts the position to a flat row-major index.
func (p GridPosition) Unroll(w int) int {
	return p.X + p.Y*w
}

// Roll is the inverse of Unroll. w must be positive.
func Roll(i, w int) GridPosition {
	return GridPosition{X: i % w, Y: i / w}
}

// Neighbour returns the adjacent position in direction d.
func (p GridPosition) Neighbour(d Direction) GridPosition {
	dx, dy := d.Delta()
	return GridPosition{X: p.X + dx, Y: p.Y + dy}
}

// Destination returns where cmd would take an actor standing on p.
func (p GridPosition) Destination(cmd Command) GridPosition {
	if cmd.Kind == CommandMove {
		return p.Neighbour(cmd.Dir)
	}
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
