package formats

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
)

const sampleLevel = `
id: sample
name: Sample
size: {w: 4, h: 2}
turn_limit: 6
ghost_limit: 2
heights:
  - [0, 0, 1, -1]
  - [0, 0, 0, 0]
tiles:
  - [1, 1, 2, 0]
  - [1, 1, 1, 3]
entities:
  - {kind: start, pos: {x: 0, y: 0}, rot: east}
  - {kind: end, pos: {x: 3, y: 1}}
  - {kind: button, pos: {x: 1, y: 1}, channel: 2}
  - {kind: door, pos: {x: 2, y: 1}, channel: 2}
metadata:
  author: test
`

func TestParseYAML(t *testing.T) {
	lvl, err := ParseYAML([]byte(sampleLevel))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	m := lvl.Terrain
	if lvl.ID != "sample" || lvl.Name != "Sample" {
		t.Errorf("id/name = %q/%q", lvl.ID, lvl.Name)
	}
	if m.Width != 4 || m.Height != 2 || m.TurnLimit != 6 {
		t.Errorf("size %dx%d turn limit %d", m.Width, m.Height, m.TurnLimit)
	}
	if m.GhostLimit == nil || *m.GhostLimit != 2 {
		t.Errorf("ghost limit = %v", m.GhostLimit)
	}
	if got := m.Heights[sim.P(3, 0).Unroll(4)]; got != -1 {
		t.Errorf("height at (3,0) = %d, want -1", got)
	}
	if got := m.TileAt(sim.P(3, 1)); got != 3 {
		t.Errorf("tile at (3,1) = %d, want 3", got)
	}
	if len(m.Shapes) != 8 || len(m.Rotations) != 8 {
		t.Error("omitted layers should default to zero-filled arrays")
	}
	if len(m.Blueprints) != 4 {
		t.Fatalf("blueprints = %d, want 4", len(m.Blueprints))
	}
	if b := m.Blueprints[0]; b.Kind != sim.BlueprintStart || b.Rot != sim.East {
		t.Errorf("start blueprint = %+v", b)
	}
	if b := m.Blueprints[3]; b.Kind != sim.BlueprintDoor || b.Channel != 2 || b.Pos != sim.P(2, 1) {
		t.Errorf("door blueprint = %+v", b)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("parsed map invalid: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	lvl, err := ParseYAML([]byte(sampleLevel))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	out, err := MarshalYAML(lvl)
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}

	again, err := ParseYAML(out)
	if err != nil {
		t.Fatalf("ParseYAML(MarshalYAML): %v\n%s", err, out)
	}
	if !reflect.DeepEqual(lvl, again) {
		t.Errorf("round trip changed level:\n%+v\n%+v", lvl.Terrain, again.Terrain)
	}
}

func TestMarshalEmptyExample(t *testing.T) {
	lvl := Level{ID: "new", Name: "New", Terrain: sim.NewTerrainMap(5, 3, 7)}
	out, err := MarshalYAML(lvl)
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	if strings.Contains(string(out), "tiles:") {
		t.Error("all-zero optional layers should be omitted")
	}
	if _, err := ParseYAML(out); err != nil {
		t.Errorf("generated level does not parse: %v", err)
	}
}

func TestMarshalRejectsInvalid(t *testing.T) {
	m := sim.NewTerrainMap(2, 2, 3)
	m.Heights = m.Heights[:1]
	if _, err := MarshalYAML(Level{ID: "bad", Terrain: m}); err == nil {
		t.Error("MarshalYAML should reject an invalid map")
	}
}

func TestSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"not an object", `- 1`},
		{"missing id", `
name: x
size: {w: 1, h: 1}
turn_limit: 1
heights: [[0]]
entities: []
`},
		{"zero turn limit", `
id: x
name: x
size: {w: 1, h: 1}
turn_limit: 0
heights: [[0]]
entities: []
`},
		{"unknown kind", `
id: x
name: x
size: {w: 1, h: 1}
turn_limit: 1
heights: [[0]]
entities: [{kind: lever, pos: {x: 0, y: 0}}]
`},
		{"bad rotation", `
id: x
name: x
size: {w: 1, h: 1}
turn_limit: 1
heights: [[0]]
entities: [{kind: start, pos: {x: 0, y: 0}, rot: up}]
`},
		{"negative channel", `
id: x
name: x
size: {w: 1, h: 1}
turn_limit: 1
heights: [[0]]
entities: [{kind: door, pos: {x: 0, y: 0}, channel: -1}]
`},
		{"tile out of byte range", `
id: x
name: x
size: {w: 1, h: 1}
turn_limit: 1
heights: [[0]]
tiles: [[300]]
entities: []
`},
		{"unknown field", `
id: x
name: x
size: {w: 1, h: 1}
turn_limit: 1
heights: [[0]]
entities: []
colour: red
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSchema([]byte(tt.doc)); err == nil {
				t.Error("ValidateSchema should fail")
			}
		})
	}
}

func TestParseRejectsRaggedRows(t *testing.T) {
	doc := `
id: x
name: x
size: {w: 2, h: 2}
turn_limit: 1
heights:
  - [0, 0]
  - [0]
entities: []
`
	if _, err := ParseYAML([]byte(doc)); err == nil {
		t.Error("ParseYAML should reject a short row")
	}
}
