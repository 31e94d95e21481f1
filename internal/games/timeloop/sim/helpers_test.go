package sim

import "testing"

// testChannel is the channel used by 'B' and 'D' cells in ASCII maps.
const testChannel = 3

// mapFrom builds a terrain map from ASCII rows.
//
//	.  passable, height 0
//	#  impassable
//	1-9 passable at that height
//	S  start, E end, B button, D door (all height 0)
func mapFrom(t *testing.T, turnLimit int, rows ...string) *TerrainMap {
	t.Helper()

	h := len(rows)
	if h == 0 {
		t.Fatal("mapFrom: no rows")
	}
	w := len(rows[0])
	m := &TerrainMap{
		Width:      w,
		Height:     h,
		Tiles:      make([]uint8, w*h),
		Shapes:     make([]uint8, w*h),
		Rotations:  make([]uint8, w*h),
		Heights:    make([]int, w*h),
		Blueprints: make([]Blueprint, 0),
		TurnLimit:  turnLimit,
	}

	for y, row := range rows {
		if len(row) != w {
			t.Fatalf("mapFrom: row %d has width %d, want %d", y, len(row), w)
		}
		for x, ch := range row {
			p := P(x, y)
			i := p.Unroll(w)
			switch {
			case ch == '.':
			case ch == '#':
				m.Heights[i] = -1
			case ch >= '1' && ch <= '9':
				m.Heights[i] = int(ch - '0')
			case ch == 'S':
				m.Blueprints = append(m.Blueprints, Blueprint{Kind: BlueprintStart, Pos: p})
			case ch == 'E':
				m.Blueprints = append(m.Blueprints, Blueprint{Kind: BlueprintEnd, Pos: p})
			case ch == 'B':
				m.Blueprints = append(m.Blueprints, Blueprint{Kind: BlueprintButton, Pos: p, Channel: testChannel})
			case ch == 'D':
				m.Blueprints = append(m.Blueprints, Blueprint{Kind: BlueprintDoor, Pos: p, Channel: testChannel})
			default:
				t.Fatalf("mapFrom: unknown cell %q", ch)
			}
		}
	}
	return m
}

func withGhosts(m *TerrainMap, n int) *TerrainMap {
	m.GhostLimit = &n
	return m
}

func newState(t *testing.T, m *TerrainMap) *State {
	t.Helper()
	s, err := New(m, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// play feeds cmds to the live actor, one per tick.
func play(s *State, cmds ...Command) []TickResult {
	out := make([]TickResult, 0, len(cmds))
	for i := range cmds {
		cmd := cmds[i]
		out = append(out, s.Tick(TickInput{Command: &cmd}))
	}
	return out
}
