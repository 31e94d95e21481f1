package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-timeloop/internal/core"
)

// palette maps core.Color to ANSI color codes.
var palette = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// Styles holds one lipgloss style per screen color. Styles are bound to a
// renderer so every SSH session gets its own color profile.
type Styles struct {
	colors map[core.Color]lipgloss.Style
	plain  lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles builds styles for r. A nil renderer uses the default one.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	s := Styles{
		colors: make(map[core.Color]lipgloss.Style, len(palette)),
		plain:  r.NewStyle(),
		Help:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
	for c, code := range palette {
		st := r.NewStyle().Foreground(lipgloss.Color(code))
		if c == core.ColorBrightYellow || c == core.ColorBrightWhite {
			st = st.Bold(true)
		}
		s.colors[c] = st
	}
	return s
}

func (s Styles) style(c core.Color) lipgloss.Style {
	if st, ok := s.colors[c]; ok {
		return st
	}
	return s.plain
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one escape sequence.
func RenderScreen(s *core.Screen, styles Styles) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			if color == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styles.style(color).Render(run.String()))
		}
	}
	return sb.String()
}
