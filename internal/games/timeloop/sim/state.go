package sim

// Outcome is the level's terminal status.
type Outcome uint8

const (
	OutcomePlaying Outcome = iota
	OutcomeSolved
	OutcomeOutOfGhosts
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePlaying:
		return "playing"
	case OutcomeSolved:
		return "solved"
	case OutcomeOutOfGhosts:
		return "out_of_ghosts"
	default:
		return "unknown"
	}
}

// Button raises its channel while its cell is occupied.
type Button struct {
	Channel int
	Pos     GridPosition
	Pressed bool
}

// Door blocks its cell until its channel is satisfied.
type Door struct {
	Channel int
	Pos     GridPosition
	Open    bool
}

// Ender solves the level when any character stands on it.
type Ender struct {
	Pos   GridPosition
	Fired bool
}

// Options configures a simulation.
type Options struct {
	// DefaultGhostLimit applies when the map does not set one.
	DefaultGhostLimit int
}

// DefaultOptions returns the options used by the shipped campaign.
func DefaultOptions() Options {
	return Options{DefaultGhostLimit: 1}
}

// State is the complete simulation state of one level instance.
// It is not safe for concurrent use; every phase of a tick is the single
// writer of the resources it touches.
type State struct {
	Terrain    *TerrainMap
	Occupancy  OccupationMap
	Signals    SignalCounter
	Turn       ActiveTurn
	GhostLimit int // remaining rollovers

	Characters []Character // arena; a handle is an index and never changes
	Buttons    []Button
	Doors      []Door
	Enders     []Ender

	Outcome   Outcome
	Clock     uint64 // ticks run since the level (re)started
	Rollovers int

	opts Options
}

// New validates terrain and builds the initial state for it.
func New(terrain *TerrainMap, opts Options) (*State, error) {
	if err := terrain.Validate(); err != nil {
		return nil, err
	}
	s := &State{
		Terrain: terrain,
		Signals: make(SignalCounter),
		opts:    opts,
	}
	s.init()
	return s, nil
}

// init instantiates every blueprint and reinitialises the shared resources.
func (s *State) init() {
	s.Turn.Reinit()
	s.Signals.Reset()
	s.Occupancy.Rebuild(s.Terrain.Len(), nil)

	s.GhostLimit = s.opts.DefaultGhostLimit
	if s.Terrain.GhostLimit != nil {
		s.GhostLimit = *s.Terrain.GhostLimit
	}

	s.Characters = make([]Character, 0, 1+s.GhostLimit)
	s.Buttons = make([]Button, 0)
	s.Doors = make([]Door, 0)
	s.Enders = make([]Ender, 0)

	for _, b := range s.Terrain.Blueprints {
		switch b.Kind {
		case BlueprintStart:
			s.Characters = append(s.Characters, NewCharacter(b.Pos))
		case BlueprintEnd:
			s.Enders = append(s.Enders, Ender{Pos: b.Pos})
		case BlueprintButton:
			s.Buttons = append(s.Buttons, Button{Channel: b.Channel, Pos: b.Pos})
			s.Signals.RegisterSource(b.Channel)
		case BlueprintDoor:
			s.Doors = append(s.Doors, Door{Channel: b.Channel, Pos: b.Pos})
		}
	}

	s.Outcome = OutcomePlaying
	s.Clock = 0
	s.Rollovers = 0
}

// Restart throws away every character and returns the level to its
// initial state.
func (s *State) Restart() {
	s.init()
}

// Tick runs one simulation step. Phases run in a fixed order: maintenance,
// occupancy rebuild, actors, buttons, doors, enders, rollover.
// Once the level has an outcome, Tick does nothing.
func (s *State) Tick(in TickInput) TickResult {
	res := TickResult{Events: make([]Event, 0)}
	if s.Outcome != OutcomePlaying {
		res.Tick = s.Clock
		res.Outcome = s.Outcome
		return res
	}

	s.Clock++
	res.Tick = s.Clock

	s.Turn.Unblock()
	if in.Hold {
		s.Turn.Block()
	}

	s.rebuildOccupancy()
	s.actorPhase(in.Command, &res)
	s.rebuildOccupancy()
	s.buttonPhase(&res)
	s.doorPhase(&res)
	s.enderPhase(&res)
	if s.Outcome == OutcomePlaying {
		s.resetPhase(&res)
	}

	res.Outcome = s.Outcome
	return res
}

func (s *State) rebuildOccupancy() {
	w := s.Terrain.Width
	occupants := make([]int, 0, len(s.Characters)+len(s.Doors))
	for i := range s.Characters {
		occupants = append(occupants, s.Characters[i].Current.Unroll(w))
	}
	for _, d := range s.Doors {
		if !d.Open {
			occupants = append(occupants, d.Pos.Unroll(w))
		}
	}
	s.Occupancy.Rebuild(s.Terrain.Len(), occupants)
}

// actorPhase lets every eligible actor act in scheduler order. The live
// actor acts only if a command was supplied, and at most once.
func (s *State) actorPhase(live *Command, res *TickResult) {
	limit := s.Terrain.TurnLimit
	for {
		h := s.handleOnSlot(s.Turn.ActiveSlot())
		if h < 0 {
			return
		}
		c := &s.Characters[h]
		if !s.Turn.AllowTurn(limit, c.Slot()) {
			return
		}

		var cmd Command
		var pos GridPosition
		var ok bool
		switch c.Role {
		case RoleActive:
			if live == nil {
				return
			}
			cmd = *live
			live = nil
			res.Used = true
			pos, ok = c.Record(cmd, s.Terrain, s.Occupancy)
		case RoleReplaying:
			cmd, pos, ok = c.DoQueuedAction(s.Terrain, s.Occupancy)
		}

		s.emitAct(res, h, cmd, pos, ok)
		res.Acted++
		s.Turn.MarchTurn()
	}
}

func (s *State) emitAct(res *TickResult, h int, cmd Command, pos GridPosition, ok bool) {
	switch {
	case cmd.Kind == CommandWait:
		res.Events = append(res.Events, Event{Kind: EventWait, Actor: h, Pos: pos})
	case ok:
		res.Events = append(res.Events, Event{Kind: EventStep, Actor: h, Pos: pos, Tile: s.Terrain.TileAt(pos)})
	default:
		res.Events = append(res.Events, Event{Kind: EventBlocked, Actor: h, Pos: s.Characters[h].Current})
	}
}

// buttonPhase turns occupancy edges on button cells into signal changes.
func (s *State) buttonPhase(res *TickResult) {
	w := s.Terrain.Width
	for i := range s.Buttons {
		b := &s.Buttons[i]
		occupied := s.Occupancy.Occupied(b.Pos.Unroll(w))
		if occupied == b.Pressed {
			continue
		}
		if occupied {
			s.Signals.Increment(b.Channel)
			res.Events = append(res.Events, Event{Kind: EventButtonPressed, Actor: -1, Pos: b.Pos, Channel: b.Channel})
		} else {
			s.Signals.Decrement(b.Channel)
			res.Events = append(res.Events, Event{Kind: EventButtonReleased, Actor: -1, Pos: b.Pos, Channel: b.Channel})
		}
		b.Pressed = occupied
	}
}

// doorPhase opens or closes doors from their channel and makes closed doors
// block their cell.
func (s *State) doorPhase(res *TickResult) {
	w := s.Terrain.Width
	for i := range s.Doors {
		d := &s.Doors[i]
		open := s.Signals.Satisfied(d.Channel)
		if open != d.Open {
			kind := EventDoorClosed
			if open {
				kind = EventDoorOpened
			}
			res.Events = append(res.Events, Event{Kind: kind, Actor: -1, Pos: d.Pos, Channel: d.Channel})
			d.Open = open
		}
		if !d.Open {
			s.Occupancy.Set(d.Pos.Unroll(w), true)
		}
	}
}

// enderPhase solves the level when any character stands on an end tile.
// Each ender fires at most once.
func (s *State) enderPhase(res *TickResult) {
	for i := range s.Enders {
		e := &s.Enders[i]
		if e.Fired {
			continue
		}
		for h := range s.Characters {
			if s.Characters[h].Current == e.Pos {
				e.Fired = true
				s.Outcome = OutcomeSolved
				res.Events = append(res.Events, Event{Kind: EventSolved, Actor: h, Pos: e.Pos})
				break
			}
		}
	}
}

// resetPhase rolls the round over, or fails the level when the ghost
// budget is spent.
func (s *State) resetPhase(res *TickResult) {
	if !s.Turn.ShouldReset(s.Terrain.TurnLimit) {
		return
	}
	if s.GhostLimit == 0 {
		s.Outcome = OutcomeOutOfGhosts
		res.Events = append(res.Events, Event{Kind: EventOutOfGhosts, Actor: -1})
		return
	}
	s.rollover(res)
}

// rollover freezes the active character into a ghost and adds a fresh
// active character at the same start. Every ghost rewinds to replay its
// full history again.
func (s *State) rollover(res *TickResult) {
	active := s.ActiveHandle()
	if active < 0 {
		return
	}
	next := s.Characters[active].NewMe()
	s.Characters[active].Role = RoleReplaying

	for i := range s.Characters {
		if s.Characters[i].Role == RoleReplaying {
			s.Characters[i].Reset()
		}
	}
	s.Characters = append(s.Characters, next)

	s.Turn.ResetAndAddEnt()
	s.GhostLimit--
	s.Rollovers++

	res.Events = append(res.Events, Event{Kind: EventRollover, Actor: len(s.Characters) - 1, Pos: next.Start})
}

// handleOnSlot returns the character acting on slot, or -1.
func (s *State) handleOnSlot(slot int) int {
	for i := range s.Characters {
		if s.Characters[i].Slot() == slot {
			return i
		}
	}
	return -1
}

// ActiveHandle returns the handle of the live character, or -1.
func (s *State) ActiveHandle() int {
	for i := range s.Characters {
		if s.Characters[i].Role == RoleActive {
			return i
		}
	}
	return -1
}

// Active returns the live character, or nil.
func (s *State) Active() *Character {
	h := s.ActiveHandle()
	if h < 0 {
		return nil
	}
	return &s.Characters[h]
}

// Ghosts returns the number of replaying characters.
func (s *State) Ghosts() int {
	n := 0
	for i := range s.Characters {
		if s.Characters[i].Role == RoleReplaying {
			n++
		}
	}
	return n
}

// TurnsLeft returns how many turns remain in the current round.
func (s *State) TurnsLeft() int {
	return s.Terrain.TurnLimit - s.Turn.Turn
}

// AwaitingInput reports whether the next eligible actor is the live one.
func (s *State) AwaitingInput() bool {
	if s.Outcome != OutcomePlaying {
		return false
	}
	h := s.handleOnSlot(s.Turn.ActiveSlot())
	return h >= 0 && s.Characters[h].Role == RoleActive && s.Turn.Turn != s.Terrain.TurnLimit
}

// CharactersAt returns the handles of every character on p.
func (s *State) CharactersAt(p GridPosition) []int {
	out := make([]int, 0)
	for i := range s.Characters {
		if s.Characters[i].Current == p {
			out = append(out, i)
		}
	}
	return out
}

// DoorAt returns the door on p, or nil.
func (s *State) DoorAt(p GridPosition) *Door {
	for i := range s.Doors {
		if s.Doors[i].Pos == p {
			return &s.Doors[i]
		}
	}
	return nil
}

// ButtonAt returns the button on p, or nil.
func (s *State) ButtonAt(p GridPosition) *Button {
	for i := range s.Buttons {
		if s.Buttons[i].Pos == p {
			return &s.Buttons[i]
		}
	}
	return nil
}

// IsEnd returns true if p holds an end tile.
func (s *State) IsEnd(p GridPosition) bool {
	for _, e := range s.Enders {
		if e.Pos == p {
			return true
		}
	}
	return false
}
