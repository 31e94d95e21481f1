package timeloop

import (
	"strconv"
	"unicode/utf8"

	"github.com/vovakirdan/tui-timeloop/internal/core"
	"github.com/vovakirdan/tui-timeloop/internal/games/timeloop/sim"
)

const (
	cellW     = 2 // terminal columns per grid cell
	hudHeight = 2
	footer    = 2 // hint + status lines
)

// footsteps names the surface of each tile texture id.
var footsteps = map[uint8]string{
	0: "dust",
	1: "grass",
	2: "stone",
	3: "metal",
}

var heightShades = []rune{'·', '░', '▒', '▓'}

// glyph is one drawn grid cell.
type glyph struct {
	r1, r2 rune
	color  core.Color
}

func (g *Game) setStatus(text string, c core.Color) {
	g.status = text
	g.statusColor = c
}

// describe turns the events of a tick into the status line.
// Later events win.
func (g *Game) describe(res sim.TickResult) {
	active := g.state.ActiveHandle()
	for _, ev := range res.Events {
		switch ev.Kind {
		case sim.EventStep:
			if ev.Actor == active {
				surface, ok := footsteps[ev.Tile]
				if !ok {
					surface = "something odd"
				}
				g.setStatus("Footsteps on "+surface+".", core.ColorGray)
			}
		case sim.EventBlocked:
			if ev.Actor == active {
				g.setStatus("Something blocks the way.", core.ColorYellow)
			}
		case sim.EventButtonPressed:
			g.setStatus("A button clicks down.", core.ColorCyan)
		case sim.EventButtonReleased:
			g.setStatus("A button springs back up.", core.ColorCyan)
		case sim.EventDoorOpened:
			g.setStatus("A door slides open.", core.ColorGreen)
		case sim.EventDoorClosed:
			g.setStatus("A door slams shut.", core.ColorRed)
		case sim.EventRollover:
			g.setStatus("The loop resets. Ghost "+strconv.Itoa(g.state.Ghosts())+" walks your path.", core.ColorMagenta)
		case sim.EventSolved:
			g.setStatus("Solved!", core.ColorBrightGreen)
		case sim.EventOutOfGhosts:
			g.setStatus("No ghosts left.", core.ColorBrightRed)
		}
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.phase == PhaseError {
		msg := "unknown error"
		if g.loadErr != nil {
			msg = g.loadErr.Error()
		}
		g.renderOverlay(dst, "Could not load levels", truncate(msg, dst.Width()-6))
		return
	}
	if g.state == nil {
		return
	}

	g.renderHUD(dst)

	board, ok := g.boardRect(dst)
	if !ok {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}
	g.renderBoard(dst, board)
	g.renderFooter(dst)

	switch {
	case g.phase == PhaseDone:
		g.renderOverlay(dst, "The loop is closed", "All "+strconv.Itoa(len(g.solved))+" levels solved. R to play again")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	case g.phase == PhaseIntro:
		g.renderOverlay(dst, g.level.Title(), "Press any key")
	case g.phase == PhaseSolved:
		g.renderOverlay(dst, "Solved!", "Enter to continue")
	case g.phase == PhaseFailed:
		g.renderOverlay(dst, "Out of ghosts", "Press R to restart")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := " " + g.level.Title() +
		" | Turn " + strconv.Itoa(g.state.Turn.Turn) + "/" + strconv.Itoa(g.state.Terrain.TurnLimit) +
		" | Ghosts left " + strconv.Itoa(g.state.GhostLimit) +
		" | Solved " + strconv.Itoa(len(g.solved)) + "/" + strconv.Itoa(g.campaign.Len())
	dst.DrawTextWithColor(0, 0, hud, core.ColorCyan)

	for x := 0; x < dst.Width(); x++ {
		dst.SetWithColor(x, 1, '─', core.ColorGray)
	}
}

func (g *Game) renderFooter(dst *core.Screen) {
	h := dst.Height()
	if hint := g.level.Metadata["hint"]; hint != "" {
		dst.DrawTextWithColor(1, h-2, truncate(hint, dst.Width()-2), core.ColorGray)
	}
	if g.status != "" {
		dst.DrawTextWithColor(1, h-1, truncate(g.status, dst.Width()-2), g.statusColor)
	}
}

// boardRect returns the framed board area, or false when it does not fit.
func (g *Game) boardRect(dst *core.Screen) (core.Rect, bool) {
	t := g.state.Terrain
	w := t.Width*cellW + 2
	h := t.Height + 2
	area := core.NewRect(0, hudHeight, dst.Width(), dst.Height()-hudHeight-footer)
	if w > area.W || h > area.H {
		return core.Rect{}, false
	}
	return area.CenterBox(w, h), true
}

func (g *Game) renderBoard(dst *core.Screen, frame core.Rect) {
	dst.DrawBox(frame, core.ColorGray)

	t := g.state.Terrain
	if !t.Materialized {
		g.materialize(t)
	}
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			r1, r2, c := g.cellGlyph(sim.P(x, y))
			sx := frame.X + 1 + x*cellW
			sy := frame.Y + 1 + y
			dst.SetWithColor(sx, sy, r1, c)
			dst.SetWithColor(sx+1, sy, r2, c)
		}
	}
}

// cellGlyph picks what is drawn on p. Characters cover doors, doors cover
// buttons and goals, and those cover terrain.
func (g *Game) cellGlyph(p sim.GridPosition) (rune, rune, core.Color) {
	s := g.state

	ghost := -1
	for _, h := range s.CharactersAt(p) {
		c := &s.Characters[h]
		if c.Role == sim.RoleActive {
			return '@', ' ', core.ColorBrightYellow
		}
		if ghost < 0 || c.Generation > s.Characters[ghost].Generation {
			ghost = h
		}
	}
	if ghost >= 0 {
		gen := s.Characters[ghost].Generation
		return rune('0' + gen%10), ' ', core.Cycle(gen)
	}

	if d := s.DoorAt(p); d != nil {
		if d.Open {
			return '▯', ' ', core.ColorGreen
		}
		return '▮', ' ', core.ColorRed
	}
	if b := s.ButtonAt(p); b != nil {
		if b.Pressed {
			return '●', ' ', core.ColorBrightCyan
		}
		return '○', ' ', core.ColorCyan
	}
	if s.IsEnd(p) {
		return '◎', ' ', core.ColorBrightGreen
	}

	gl := g.terrain[p.Unroll(s.Terrain.Width)]
	return gl.r1, gl.r2, gl.color
}

// materialize caches the static terrain layer of the current map. Heights
// and walls never change during a level, so it is built once per map.
func (g *Game) materialize(t *sim.TerrainMap) {
	g.terrain = g.terrain[:0]
	for i := 0; i < t.Len(); i++ {
		g.terrain = append(g.terrain, terrainGlyph(t, sim.Roll(i, t.Width)))
	}
	t.Materialized = true
}

func terrainGlyph(t *sim.TerrainMap, p sim.GridPosition) glyph {
	th, ok := t.HeightAt(p)
	if !ok || !th.Passable {
		return glyph{'█', '█', core.ColorGray}
	}
	level := core.Clamp(th.Level, 0, len(heightShades)-1)
	shade := heightShades[level]
	if level == 0 {
		return glyph{shade, ' ', core.ColorGray}
	}
	return glyph{shade, shade, core.ColorWhite}
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	width := core.Max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2)) + 4
	box := dst.Bounds().CenterBox(width, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCenteredWithColor(box.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
