// Package formats provides the level file codecs for the time-loop game.
package formats

import (
	"fmt"

	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
// Per-cell layers are lists of rows: Size.H rows of Size.W values.
type YAMLLevel struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Size       YAMLSize          `yaml:"size"`
	TurnLimit  int               `yaml:"turn_limit"`
	GhostLimit *int              `yaml:"ghost_limit,omitempty"`
	Heights    [][]int           `yaml:"heights"`
	Tiles      [][]int           `yaml:"tiles,omitempty"`
	Shapes     [][]int           `yaml:"shapes,omitempty"`
	Rotations  [][]int           `yaml:"rotations,omitempty"`
	Entities   []YAMLEntity      `yaml:"entities"`
	Metadata   map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLPos is a cell address.
type YAMLPos struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLEntity is one placed blueprint.
type YAMLEntity struct {
	Kind    string  `yaml:"kind"`
	Pos     YAMLPos `yaml:"pos"`
	Rot     string  `yaml:"rot,omitempty"`
	Channel int     `yaml:"channel,omitempty"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID       string
	Name     string
	Terrain  *sim.TerrainMap
	Metadata map[string]string
}

// ParseYAML validates data against the level schema and decodes it.
// The returned terrain has not been checked with TerrainMap.Validate.
func ParseYAML(data []byte) (Level, error) {
	if err := ValidateSchema(data); err != nil {
		return Level{}, err
	}

	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	w, h := yl.Size.W, yl.Size.H
	heights, err := flattenInts("heights", yl.Heights, w, h)
	if err != nil {
		return Level{}, err
	}
	tiles, err := flattenBytes("tiles", yl.Tiles, w, h)
	if err != nil {
		return Level{}, err
	}
	shapes, err := flattenBytes("shapes", yl.Shapes, w, h)
	if err != nil {
		return Level{}, err
	}
	rotations, err := flattenBytes("rotations", yl.Rotations, w, h)
	if err != nil {
		return Level{}, err
	}

	terrain := &sim.TerrainMap{
		Width:      w,
		Height:     h,
		Tiles:      tiles,
		Shapes:     shapes,
		Rotations:  rotations,
		Heights:    heights,
		Blueprints: make([]sim.Blueprint, 0, len(yl.Entities)),
		TurnLimit:  yl.TurnLimit,
		GhostLimit: yl.GhostLimit,
	}

	for i, e := range yl.Entities {
		kind, ok := sim.ParseBlueprintKind(e.Kind)
		if !ok {
			return Level{}, fmt.Errorf("entity %d: unknown kind %q", i, e.Kind)
		}
		rot := sim.North
		if e.Rot != "" {
			if rot, ok = sim.ParseDirection(e.Rot); !ok {
				return Level{}, fmt.Errorf("entity %d: unknown rotation %q", i, e.Rot)
			}
		}
		terrain.Blueprints = append(terrain.Blueprints, sim.Blueprint{
			Kind:    kind,
			Pos:     sim.P(e.Pos.X, e.Pos.Y),
			Rot:     rot,
			Channel: e.Channel,
		})
	}

	return Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Terrain:  terrain,
		Metadata: yl.Metadata,
	}, nil
}

// MarshalYAML encodes a level. ParseYAML(MarshalYAML(l)) reproduces l.
func MarshalYAML(l Level) ([]byte, error) {
	m := l.Terrain
	if m == nil {
		return nil, fmt.Errorf("level %s has no terrain", l.ID)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", l.ID, err)
	}

	yl := YAMLLevel{
		ID:         l.ID,
		Name:       l.Name,
		Size:       YAMLSize{W: m.Width, H: m.Height},
		TurnLimit:  m.TurnLimit,
		GhostLimit: m.GhostLimit,
		Heights:    rowsInts(m.Heights, m.Width, m.Height),
		Tiles:      rowsBytes(m.Tiles, m.Width, m.Height),
		Shapes:     rowsBytes(m.Shapes, m.Width, m.Height),
		Rotations:  rowsBytes(m.Rotations, m.Width, m.Height),
		Entities:   make([]YAMLEntity, 0, len(m.Blueprints)),
		Metadata:   l.Metadata,
	}

	for _, b := range m.Blueprints {
		e := YAMLEntity{
			Kind:    b.Kind.String(),
			Pos:     YAMLPos{X: b.Pos.X, Y: b.Pos.Y},
			Channel: b.Channel,
		}
		if b.Rot != sim.North {
			e.Rot = b.Rot.String()
		}
		yl.Entities = append(yl.Entities, e)
	}

	out, err := yaml.Marshal(&yl)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return out, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

func flattenInts(name string, rows [][]int, w, h int) ([]int, error) {
	out := make([]int, w*h)
	if rows == nil {
		return out, nil
	}
	if len(rows) != h {
		return nil, fmt.Errorf("%s: %d rows, want %d", name, len(rows), h)
	}
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%s: row %d has %d cells, want %d", name, y, len(row), w)
		}
		copy(out[y*w:], row)
	}
	return out, nil
}

func flattenBytes(name string, rows [][]int, w, h int) ([]uint8, error) {
	flat, err := flattenInts(name, rows, w, h)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(flat))
	for i, v := range flat {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%s: cell %d value %d out of range", name, i, v)
		}
		out[i] = uint8(v)
	}
	return out, nil
}

func rowsInts(flat []int, w, h int) [][]int {
	rows := make([][]int, h)
	for y := 0; y < h; y++ {
		rows[y] = append([]int(nil), flat[y*w:(y+1)*w]...)
	}
	return rows
}

// rowsBytes returns nil for an all-zero layer so optional layers stay
// out of the file.
func rowsBytes(flat []uint8, w, h int) [][]int {
	zero := true
	for _, v := range flat {
		if v != 0 {
			zero = false
			break
		}
	}
	if zero {
		return nil
	}
	rows := make([][]int, h)
	for y := 0; y < h; y++ {
		row := make([]int, w)
		for x := 0; x < w; x++ {
			row[x] = int(flat[y*w+x])
		}
		rows[y] = row
	}
	return rows
}
