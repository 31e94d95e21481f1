package sim

// ActiveTurn is the global turn scheduler.
//
// Actors are numbered by slot. Within a turn the slots act in descending
// order, from activeEntRefresh down to 0; after slot 0 acts the turn counter
// advances. Each rollover adds one slot.
type ActiveTurn struct {
	activeEntRefresh int
	activeEnt        int
	Turn             int
	blockTurn        bool
}

// AllowTurn reports whether the actor on slot may act now.
func (t *ActiveTurn) AllowTurn(limit, slot int) bool {
	return !t.blockTurn && t.Turn != limit && slot == t.activeEnt
}

// MarchTurn hands the turn to the next slot. It is called after every act,
// legal or not.
func (t *ActiveTurn) MarchTurn() {
	if t.activeEnt == 0 {
		t.activeEnt = t.activeEntRefresh
		t.Turn++
	} else {
		t.activeEnt--
	}
}

// ShouldReset reports that the round is complete.
func (t *ActiveTurn) ShouldReset(limit int) bool {
	return t.Turn == limit
}

// ResetAndAddEnt starts a new round with one more slot.
func (t *ActiveTurn) ResetAndAddEnt() {
	t.activeEntRefresh++
	t.activeEnt = t.activeEntRefresh
	t.Turn = 0
}

// Block pauses turn consumption until the next Unblock.
func (t *ActiveTurn) Block() {
	t.blockTurn = true
}

// Unblock is the per-tick maintenance step.
func (t *ActiveTurn) Unblock() {
	t.blockTurn = false
}

// Blocked reports whether turn consumption is paused.
func (t *ActiveTurn) Blocked() bool {
	return t.blockTurn
}

// ActiveSlot returns the slot that may act next.
func (t *ActiveTurn) ActiveSlot() int {
	return t.activeEnt
}

// Slots returns the number of slots in the round.
func (t *ActiveTurn) Slots() int {
	return t.activeEntRefresh + 1
}

// Reinit returns the scheduler to its initial single-slot state.
func (t *ActiveTurn) Reinit() {
	*t = ActiveTurn{}
}
