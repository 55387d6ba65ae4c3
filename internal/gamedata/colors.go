package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}
	return tcell.NewHexColor(int32(rgb)), nil
}

// ParseColor accepts a hex color, a W3C color name such as "gold", or an
// empty string for the terminal default.
func ParseColor(s string) (tcell.Color, error) {
	switch {
	case s == "":
		return tcell.ColorDefault, nil
	case strings.HasPrefix(s, "#"):
		return ParseHexColor(s)
	}
	if c, ok := tcell.ColorNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color %q", s)
}

// MustParseColor converts a color string to tcell.Color, panicking on error.
func MustParseColor(s string) tcell.Color {
	color, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return color
}
