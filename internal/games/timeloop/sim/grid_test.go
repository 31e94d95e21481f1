package sim

import "testing"

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy int
	}{
		{North, 0, -1},
		{East, 1, 0},
		{South, 0, 1},
		{West, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			dx, dy := tt.dir.Delta()
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("Delta() = (%d,%d), want (%d,%d)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestRollUnrollRoundTrip(t *testing.T) {
	const w, h = 7, 5
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := P(x, y)
			i := p.Unroll(w)
			if got := Roll(i, w); got != p {
				t.Fatalf("Roll(Unroll(%v)) = %v", p, got)
			}
		}
	}
	for i := 0; i < w*h; i++ {
		if got := Roll(i, w).Unroll(w); got != i {
			t.Fatalf("Unroll(Roll(%d)) = %d", i, got)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   GridPosition
		want GridPosition
	}{
		{"inside", P(2, 3), P(2, 3)},
		{"negative x", P(-1, 2), P(0, 2)},
		{"negative y", P(1, -4), P(1, 0)},
		{"past right edge", P(9, 1), P(4, 1)},
		{"past bottom edge", P(0, 7), P(0, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(5, 4); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandParse(t *testing.T) {
	cmds := []Command{Wait(), Move(North), Move(East), Move(South), Move(West)}
	for _, c := range cmds {
		got, err := ParseCommand(c.String())
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("ParseCommand(%q) = %v, want %v", c.String(), got, c)
		}
	}

	for _, bad := range []string{"", "move:", "move:up", "jump", "wait "} {
		if _, err := ParseCommand(bad); err == nil {
			t.Errorf("ParseCommand(%q) should fail", bad)
		}
	}
}

func TestDestination(t *testing.T) {
	p := P(3, 3)
	if got := p.Destination(Wait()); got != p {
		t.Errorf("wait destination = %v, want %v", got, p)
	}
	if got := p.Destination(Move(North)); got != P(3, 2) {
		t.Errorf("north destination = %v, want (3,2)", got)
	}
	if got := p.Destination(Move(West)); got != P(2, 3) {
		t.Errorf("west destination = %v, want (2,3)", got)
	}
}
