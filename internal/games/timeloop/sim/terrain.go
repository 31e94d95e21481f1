package sim

import "fmt"

// HeightJumpLimit is the exclusive bound on the height difference a single
// move may cross.
const HeightJumpLimit = 2

// TileHeight is the decoded form of a signed per-cell height.
type TileHeight struct {
	Level    int
	Passable bool
}

// DecodeHeight converts a raw signed height. Non-negative values are passable
// at that height, negative values are impassable at the magnitude.
func DecodeHeight(raw int) TileHeight {
	if raw < 0 {
		return TileHeight{Level: -raw, Passable: false}
	}
	return TileHeight{Level: raw, Passable: true}
}

// BlueprintKind is the closed set of authored entity kinds.
type BlueprintKind uint8

const (
	BlueprintStart BlueprintKind = iota
	BlueprintEnd
	BlueprintButton
	BlueprintDoor
)

// String returns the level-file name of the kind.
func (k BlueprintKind) String() string {
	switch k {
	case BlueprintStart:
		return "start"
	case BlueprintEnd:
		return "end"
	case BlueprintButton:
		return "button"
	case BlueprintDoor:
		return "door"
	default:
		return "unknown"
	}
}

// ParseBlueprintKind parses a level-file entity kind.
func ParseBlueprintKind(s string) (BlueprintKind, bool) {
	switch s {
	case "start":
		return BlueprintStart, true
	case "end":
		return BlueprintEnd, true
	case "button":
		return BlueprintButton, true
	case "door":
		return BlueprintDoor, true
	}
	return BlueprintStart, false
}

// Blueprint places an entity on the map at level load.
// Channel is meaningful for buttons and doors only.
type Blueprint struct {
	Kind    BlueprintKind
	Pos     GridPosition
	Rot     Direction
	Channel int
}

// TerrainMap is the static description of a level.
// Per-cell arrays are row-major with length Width*Height.
type TerrainMap struct {
	Width  int
	Height int

	Tiles     []uint8 // tile texture ids
	Shapes    []uint8 // tile shape ids
	Rotations []uint8
	Heights   []int // signed: negative means impassable

	Blueprints []Blueprint

	TurnLimit  int
	GhostLimit *int // nil means use the caller's default

	// Materialized is set by the presentation layer once static geometry has
	// been drawn. The simulation never reads it.
	Materialized bool
}

// NewTerrainMap creates a flat, fully passable map of the given size with a
// start at the origin and an end in the opposite corner.
func NewTerrainMap(w, h, turnLimit int) *TerrainMap {
	n := w * h
	if w <= 0 || h <= 0 {
		n = 0
	}
	return &TerrainMap{
		Width:     w,
		Height:    h,
		Tiles:     make([]uint8, n),
		Shapes:    make([]uint8, n),
		Rotations: make([]uint8, n),
		Heights:   make([]int, n),
		Blueprints: []Blueprint{
			{Kind: BlueprintStart, Pos: P(0, 0)},
			{Kind: BlueprintEnd, Pos: P(w-1, h-1)},
		},
		TurnLimit: turnLimit,
	}
}

// Len returns the number of cells.
func (m *TerrainMap) Len() int {
	return m.Width * m.Height
}

// InBounds returns true if p lies on the map.
func (m *TerrainMap) InBounds(p GridPosition) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// HeightAt returns the decoded height of a cell.
// Returns false for positions off the map.
func (m *TerrainMap) HeightAt(p GridPosition) (TileHeight, bool) {
	if !m.InBounds(p) {
		return TileHeight{}, false
	}
	i := p.Unroll(m.Width)
	if i < 0 || i >= len(m.Heights) {
		return TileHeight{}, false
	}
	return DecodeHeight(m.Heights[i]), true
}

// TileAt returns the texture id of a cell, or 0 off the map.
func (m *TerrainMap) TileAt(p GridPosition) uint8 {
	if !m.InBounds(p) {
		return 0
	}
	i := p.Unroll(m.Width)
	if i >= len(m.Tiles) {
		return 0
	}
	return m.Tiles[i]
}

// MoveAllowedByTerrain reports whether terrain alone permits stepping from
// one cell to an adjacent one. Missing or impassable endpoints always block.
func (m *TerrainMap) MoveAllowedByTerrain(from, to GridPosition) bool {
	dst, ok := m.HeightAt(to)
	if !ok || !dst.Passable {
		return false
	}
	src, ok := m.HeightAt(from)
	if !ok || !src.Passable {
		return false
	}
	delta := dst.Level - src.Level
	if delta < 0 {
		delta = -delta
	}
	return delta < HeightJumpLimit
}

// BlueprintsOf returns the blueprints of one kind in authored order.
func (m *TerrainMap) BlueprintsOf(kind BlueprintKind) []Blueprint {
	out := make([]Blueprint, 0)
	for _, b := range m.Blueprints {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Clone returns a deep copy of the map.
func (m *TerrainMap) Clone() *TerrainMap {
	out := *m
	out.Tiles = append([]uint8(nil), m.Tiles...)
	out.Shapes = append([]uint8(nil), m.Shapes...)
	out.Rotations = append([]uint8(nil), m.Rotations...)
	out.Heights = append([]int(nil), m.Heights...)
	out.Blueprints = append([]Blueprint(nil), m.Blueprints...)
	if m.GhostLimit != nil {
		g := *m.GhostLimit
		out.GhostLimit = &g
	}
	return &out
}

// ValidationError describes a malformed map.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate checks every structural invariant the simulation indexes on.
// A map that fails validation must not be simulated.
func (m *TerrainMap) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return invalid("BAD_SIZE", "map size %dx%d must be positive", m.Width, m.Height)
	}

	n := m.Len()
	layers := []struct {
		name string
		len  int
	}{
		{"tiles", len(m.Tiles)},
		{"shapes", len(m.Shapes)},
		{"rotations", len(m.Rotations)},
		{"heights", len(m.Heights)},
	}
	for _, l := range layers {
		if l.len != n {
			return invalid("BAD_ARRAY_LEN", "%s has %d cells, want %d", l.name, l.len, n)
		}
	}

	if m.TurnLimit < 1 {
		return invalid("BAD_TURN_LIMIT", "turn limit %d must be at least 1", m.TurnLimit)
	}
	if m.GhostLimit != nil && *m.GhostLimit < 0 {
		return invalid("BAD_GHOST_LIMIT", "ghost limit %d must not be negative", *m.GhostLimit)
	}

	for i, b := range m.Blueprints {
		if !m.InBounds(b.Pos) {
			return invalid("BAD_BLUEPRINT_POS", "entity %d (%s) at %v is off the map", i, b.Kind, b.Pos)
		}
		if (b.Kind == BlueprintButton || b.Kind == BlueprintDoor) && b.Channel < 0 {
			return invalid("BAD_CHANNEL", "entity %d (%s) has negative channel %d", i, b.Kind, b.Channel)
		}
	}
	if starts := len(m.BlueprintsOf(BlueprintStart)); starts != 1 {
		return invalid("BAD_START", "map needs exactly one start, has %d", starts)
	}
	if len(m.BlueprintsOf(BlueprintEnd)) == 0 {
		return invalid("NO_END", "map has no end tile")
	}

	return nil
}
