// Package levels loads time-loop levels and the campaign manifest that
// orders them. This package depends on sim but sim does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/levels/formats"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file at the root of a campaign directory.
const ManifestName = "levels.yaml"

//go:embed campaign/*.yaml
var defaultCampaign embed.FS

// ErrCampaignComplete is returned when advancing past the last level.
var ErrCampaignComplete = errors.New("campaign complete")

// Entry is one manifest line.
type Entry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Manifest orders the levels of a campaign.
type Manifest struct {
	StartAt int     `yaml:"start_at"`
	Levels  []Entry `yaml:"levels"`
}

// Level represents a loaded, validated level.
type Level struct {
	ID       string
	Name     string
	Index    int // position in the campaign, -1 for a standalone file
	Terrain  *sim.TerrainMap
	Metadata map[string]string
	FilePath string
}

// Title returns the intro banner text, e.g. "III: Two Keys".
func (l *Level) Title() string {
	if l.Index < 0 {
		return l.Name
	}
	return Roman(l.Index+1) + ": " + l.Name
}

// Campaign walks the levels of a manifest in order.
type Campaign struct {
	fsys     fs.FS
	manifest Manifest
	index    int
}

// Default returns the campaign compiled into the binary.
func Default() (*Campaign, error) {
	sub, err := fs.Sub(defaultCampaign, "campaign")
	if err != nil {
		return nil, fmt.Errorf("opening embedded campaign: %w", err)
	}
	return Open(sub)
}

// OpenDir opens the campaign whose manifest lives in dir.
func OpenDir(dir string) (*Campaign, error) {
	return Open(os.DirFS(dir))
}

// Open reads the manifest at the root of fsys.
func Open(fsys fs.FS) (*Campaign, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Levels) == 0 {
		return nil, fmt.Errorf("manifest lists no levels")
	}
	if m.StartAt < 0 || m.StartAt >= len(m.Levels) {
		return nil, fmt.Errorf("manifest start_at %d out of range [0,%d)", m.StartAt, len(m.Levels))
	}

	return &Campaign{fsys: fsys, manifest: m, index: m.StartAt}, nil
}

// Len returns the number of levels in the campaign.
func (c *Campaign) Len() int {
	return len(c.manifest.Levels)
}

// Index returns the position of the current level.
func (c *Campaign) Index() int {
	return c.index
}

// Done returns true once the campaign has advanced past its last level.
func (c *Campaign) Done() bool {
	return c.index >= len(c.manifest.Levels)
}

// Entries returns the manifest lines in order.
func (c *Campaign) Entries() []Entry {
	return append([]Entry(nil), c.manifest.Levels...)
}

// Current returns the manifest entry of the current level.
func (c *Campaign) Current() (Entry, bool) {
	if c.Done() {
		return Entry{}, false
	}
	return c.manifest.Levels[c.index], true
}

// Seek makes level i the current one.
func (c *Campaign) Seek(i int) error {
	if i < 0 || i >= len(c.manifest.Levels) {
		return fmt.Errorf("level index %d out of range [0,%d)", i, len(c.manifest.Levels))
	}
	c.index = i
	return nil
}

// LoadCurrent loads the current level.
func (c *Campaign) LoadCurrent() (Level, error) {
	if c.Done() {
		return Level{}, ErrCampaignComplete
	}
	return c.load(c.index)
}

// LoadNext advances to the next level and loads it.
func (c *Campaign) LoadNext() (Level, error) {
	if !c.Done() {
		c.index++
	}
	return c.LoadCurrent()
}

// LoadAll loads every level of the campaign without moving the cursor.
func (c *Campaign) LoadAll() ([]Level, error) {
	out := make([]Level, 0, len(c.manifest.Levels))
	for i := range c.manifest.Levels {
		lvl, err := c.load(i)
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	return out, nil
}

// FindByID loads the level with the given id and makes it current.
func (c *Campaign) FindByID(id string) (Level, error) {
	for i := range c.manifest.Levels {
		lvl, err := c.load(i)
		if err != nil {
			return Level{}, err
		}
		if lvl.ID == id {
			c.index = i
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

func (c *Campaign) load(i int) (Level, error) {
	e := c.manifest.Levels[i]
	p := path.Clean(e.Path)
	data, err := fs.ReadFile(c.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading level %s: %w", e.Path, err)
	}

	lvl, err := decode(data, p)
	if err != nil {
		return Level{}, err
	}
	lvl.Index = i
	if e.Name != "" {
		lvl.Name = e.Name
	}
	return lvl, nil
}

// LoadFile loads a single level file from disk.
func LoadFile(p string) (Level, error) {
	ext := strings.ToLower(filepath.Ext(p))
	if !isSupportedExtension(ext) {
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	lvl, err := decode(data, p)
	if err != nil {
		return Level{}, err
	}
	lvl.Index = -1
	return lvl, nil
}

// decode parses and validates level data.
func decode(data []byte, p string) (Level, error) {
	parsed, err := formats.ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	if err := parsed.Terrain.Validate(); err != nil {
		return Level{}, fmt.Errorf("validating file %s: %w", p, err)
	}

	return Level{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Terrain:  parsed.Terrain,
		Metadata: parsed.Metadata,
		FilePath: p,
	}, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
