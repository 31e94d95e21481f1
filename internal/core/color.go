package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors. The platform maps each to a terminal style.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// cycle is the rotation used by Cycle.
var cycle = []Color{
	ColorCyan,
	ColorMagenta,
	ColorBlue,
	ColorGreen,
	ColorOrange,
	ColorRed,
}

// Cycle returns a stable color for index i from a fixed rotation.
func Cycle(i int) Color {
	if i < 0 {
		i = -i
	}
	return cycle[i%len(cycle)]
}
