package sim

import (
	"fmt"
	"hash/fnv"
)

// ActorSnapshot is the observable state of one character.
type ActorSnapshot struct {
	X          int
	Y          int
	Generation int
	Cursor     int
	Recorded   int
	Role       ActorRole
}

// Snapshot captures the complete simulation state for determinism testing
// and replay verification.
type Snapshot struct {
	Tick       uint64
	Turn       int
	ActiveSlot int
	Slots      int
	Blocked    bool
	GhostsLeft int
	Rollovers  int
	Outcome    Outcome

	Actors         []ActorSnapshot
	ButtonsPressed []bool
	DoorsOpen      []bool
	Occupied       []int // occupied cell indices, ascending
}

// Snapshot returns the current simulation snapshot.
func (s *State) Snapshot() Snapshot {
	actors := make([]ActorSnapshot, len(s.Characters))
	for i, c := range s.Characters {
		actors[i] = ActorSnapshot{
			X:          c.Current.X,
			Y:          c.Current.Y,
			Generation: c.Generation,
			Cursor:     c.Cursor,
			Recorded:   len(c.Commands),
			Role:       c.Role,
		}
	}

	buttons := make([]bool, len(s.Buttons))
	for i, b := range s.Buttons {
		buttons[i] = b.Pressed
	}
	doors := make([]bool, len(s.Doors))
	for i, d := range s.Doors {
		doors[i] = d.Open
	}

	occupied := make([]int, 0, len(s.Characters)+len(s.Doors))
	for i, v := range s.Occupancy {
		if v {
			occupied = append(occupied, i)
		}
	}

	return Snapshot{
		Tick:           s.Clock,
		Turn:           s.Turn.Turn,
		ActiveSlot:     s.Turn.ActiveSlot(),
		Slots:          s.Turn.Slots(),
		Blocked:        s.Turn.Blocked(),
		GhostsLeft:     s.GhostLimit,
		Rollovers:      s.Rollovers,
		Outcome:        s.Outcome,
		Actors:         actors,
		ButtonsPressed: buttons,
		DoorsOpen:      doors,
		Occupied:       occupied,
	}
}

// Hash returns an FNV-64a digest of the snapshot for determinism checks.
func (snap *Snapshot) Hash() uint64 {
	h := fnv.New64a()

	fmt.Fprintf(h, "T:%d,%d,%d,%d,%t;", snap.Tick, snap.Turn, snap.ActiveSlot, snap.Slots, snap.Blocked)
	fmt.Fprintf(h, "G:%d,%d,%d;", snap.GhostsLeft, snap.Rollovers, snap.Outcome)

	fmt.Fprintf(h, "A:")
	for _, a := range snap.Actors {
		fmt.Fprintf(h, "%d,%d,%d,%d,%d,%d|", a.X, a.Y, a.Generation, a.Cursor, a.Recorded, a.Role)
	}

	fmt.Fprintf(h, ";B:")
	for _, v := range snap.ButtonsPressed {
		fmt.Fprintf(h, "%t,", v)
	}

	fmt.Fprintf(h, ";D:")
	for _, v := range snap.DoorsOpen {
		fmt.Fprintf(h, "%t,", v)
	}

	fmt.Fprintf(h, ";O:")
	for _, v := range snap.Occupied {
		fmt.Fprintf(h, "%d,", v)
	}

	return h.Sum64()
}
