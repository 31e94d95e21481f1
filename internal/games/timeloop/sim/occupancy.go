package sim

// OccupationMap flags the cells currently held by a blocking entity.
// It is rebuilt from scratch at the start of every tick; actors then flip
// their own bits as they move so later actors in the same tick see the
// updated occupancy. Stacked characters share one bit, so the map is
// rebuilt again once every actor has moved.
type OccupationMap []bool

// Rebuild resizes the map to cells entries, clears it and marks every
// occupant. Occupants outside the map are ignored.
func (o *OccupationMap) Rebuild(cells int, occupants []int) {
	if cap(*o) >= cells {
		*o = (*o)[:cells]
	} else {
		grown := make(OccupationMap, cells)
		copy(grown, *o)
		*o = grown
	}
	m := *o
	for i := range m {
		m[i] = false
	}
	for _, i := range occupants {
		if i >= 0 && i < len(m) {
			m[i] = true
		}
	}
}

// MoveCollider clears from and sets to.
func (o OccupationMap) MoveCollider(from, to int) {
	o[from] = false
	o[to] = true
}

// Occupied returns true if cell i is held. Out-of-range cells read as free.
func (o OccupationMap) Occupied(i int) bool {
	if i < 0 || i >= len(o) {
		return false
	}
	return o[i]
}

// Set forces the occupancy of cell i.
func (o OccupationMap) Set(i int, v bool) {
	if i >= 0 && i < len(o) {
		o[i] = v
	}
}
