package sim

// ActorRole says where a character's commands come from.
type ActorRole uint8

const (
	// RoleActive characters are driven by live input and record history.
	RoleActive ActorRole = iota
	// RoleReplaying characters play back their recorded history.
	RoleReplaying
)

// String returns the role name.
func (r ActorRole) String() string {
	if r == RoleActive {
		return "active"
	}
	return "replaying"
}

// Character is one incarnation in a lineage of time-looping actors.
type Character struct {
	Start      GridPosition
	Current    GridPosition
	Commands   []Command // full history, intent not outcome
	Cursor     int       // next command to replay
	Generation int       // rollovers since the lineage began; doubles as scheduler slot
	Role       ActorRole
}

// NewCharacter creates an active, first-generation character at pos.
func NewCharacter(pos GridPosition) Character {
	return Character{
		Start:    pos,
		Current:  pos,
		Commands: make([]Command, 0),
	}
}

// Slot returns the scheduler slot this character acts on.
func (c *Character) Slot() int {
	return c.Generation
}

// DoAction applies cmd against terrain and occupancy. On success it moves
// the character, flips the occupancy bits and returns the clamped
// destination. On failure nothing changes.
//
// A wait always succeeds and leaves occupancy untouched.
func (c *Character) DoAction(cmd Command, terrain *TerrainMap, occ OccupationMap) (GridPosition, bool) {
	if cmd.Kind == CommandWait {
		return c.Current.Clamp(terrain.Width, terrain.Height), true
	}

	dest := c.Current.Destination(cmd)
	clamped := dest.Clamp(terrain.Width, terrain.Height)
	to := clamped.Unroll(terrain.Width)

	if !terrain.MoveAllowedByTerrain(c.Current, dest) || occ.Occupied(to) {
		return GridPosition{}, false
	}

	from := c.Current.Clamp(terrain.Width, terrain.Height).Unroll(terrain.Width)
	occ.MoveCollider(from, to)
	c.Current = dest
	return clamped, true
}

// Record appends cmd to the history and applies it. The command is stored
// before legality is known so replay reproduces blocked attempts too.
func (c *Character) Record(cmd Command, terrain *TerrainMap, occ OccupationMap) (GridPosition, bool) {
	c.Commands = append(c.Commands, cmd)
	return c.DoAction(cmd, terrain, occ)
}

// DoQueuedAction replays the next recorded command and advances the cursor
// whether or not the move succeeded. An exhausted history replays as a wait.
func (c *Character) DoQueuedAction(terrain *TerrainMap, occ OccupationMap) (Command, GridPosition, bool) {
	cmd := Wait()
	if !c.Exhausted() {
		cmd = c.Commands[c.Cursor]
	}
	c.Cursor++
	pos, ok := c.DoAction(cmd, terrain, occ)
	return cmd, pos, ok
}

// Exhausted reports whether every recorded command has been replayed.
func (c *Character) Exhausted() bool {
	return c.Cursor >= len(c.Commands)
}

// Reset rewinds the character to its start for a new round.
func (c *Character) Reset() {
	c.Current = c.Start
	c.Cursor = 0
}

// NewMe returns the next incarnation: same start, empty history, one
// generation later, active.
func (c *Character) NewMe() Character {
	return Character{
		Start:      c.Start,
		Current:    c.Start,
		Commands:   make([]Command, 0),
		Cursor:     0,
		Generation: c.Generation + 1,
		Role:       RoleActive,
	}
}

// Clone returns a deep copy.
func (c *Character) Clone() Character {
	out := *c
	out.Commands = append([]Command(nil), c.Commands...)
	return out
}
