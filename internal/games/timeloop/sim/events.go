package sim

// EventKind identifies what happened during a tick.
type EventKind uint8

const (
	EventStep           EventKind = iota // actor moved onto Pos
	EventBlocked                         // actor's move was refused
	EventWait                            // actor waited in place
	EventButtonPressed                   // button at Pos became occupied
	EventButtonReleased                  // button at Pos became free
	EventDoorOpened                      // door at Pos opened
	EventDoorClosed                      // door at Pos closed
	EventRollover                        // a ghost joined; a fresh actor started
	EventSolved                          // a character reached the end at Pos
	EventOutOfGhosts                     // round ended with no ghost budget left
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventStep:
		return "step"
	case EventBlocked:
		return "blocked"
	case EventWait:
		return "wait"
	case EventButtonPressed:
		return "button_pressed"
	case EventButtonReleased:
		return "button_released"
	case EventDoorOpened:
		return "door_opened"
	case EventDoorClosed:
		return "door_closed"
	case EventRollover:
		return "rollover"
	case EventSolved:
		return "solved"
	case EventOutOfGhosts:
		return "out_of_ghosts"
	default:
		return "unknown"
	}
}

// Event is one entry in a tick's event queue. Fields that do not apply to
// the kind are zero; Actor is -1 when no character is involved.
type Event struct {
	Kind    EventKind
	Actor   int // character handle
	Pos     GridPosition
	Channel int
	Tile    uint8 // destination texture id, for footstep selection
}

// TickInput carries the live collaborators' input for one tick.
type TickInput struct {
	// Command is the live actor's command, or nil if none was issued.
	Command *Command
	// Hold pauses turn consumption for this tick.
	Hold bool
}

// TickResult reports what a tick did.
type TickResult struct {
	Tick    uint64
	Acted   int  // number of actor acts this tick
	Used    bool // whether the live command was consumed
	Events  []Event
	Outcome Outcome
}

// Has returns true if any event of kind k was emitted.
func (r TickResult) Has(k EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == k {
			return true
		}
	}
	return false
}
