package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cavedash/internal/world"
)

// StyleDef defines how a tile kind is drawn. Glyphs holds one rune per skin;
// skins past the end wrap around.
type StyleDef struct {
	Kind   string `json:"kind"`
	Glyphs string `json:"glyphs"`
	Fg     string `json:"fg"`
	Bg     string `json:"bg,omitempty"`
}

// StylesFile represents the structure of styles.json.
type StylesFile struct {
	Styles []StyleDef `json:"styles"`
}

// Style is a resolved tile style.
type Style struct {
	Glyphs []rune
	Fg, Bg tcell.Color
}

// Glyph returns the rune drawn for the given skin.
func (s Style) Glyph(skin int) rune {
	if len(s.Glyphs) == 0 {
		return '?'
	}
	if skin < 0 {
		skin = -skin
	}
	return s.Glyphs[skin%len(s.Glyphs)]
}

// TCellStyle returns the tcell style for drawing the tile.
func (s Style) TCellStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(s.Fg).Background(s.Bg)
}

// StyleSheet maps tile kinds to styles.
type StyleSheet struct {
	styles   map[world.Kind]Style
	fallback Style
}

// NewStyleSheet resolves style definitions. Kind names and colors must be valid.
func NewStyleSheet(defs []StyleDef) (*StyleSheet, error) {
	sheet := &StyleSheet{
		styles:   make(map[world.Kind]Style, len(defs)),
		fallback: Style{Glyphs: []rune{'?'}, Fg: tcell.ColorFuchsia, Bg: tcell.ColorDefault},
	}
	for _, def := range defs {
		kind, ok := world.KindByName(def.Kind)
		if !ok {
			return nil, fmt.Errorf("style for unknown tile kind %q", def.Kind)
		}
		fg, err := ParseColor(def.Fg)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", def.Kind, err)
		}
		bg, err := ParseColor(def.Bg)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", def.Kind, err)
		}
		sheet.styles[kind] = Style{Glyphs: []rune(def.Glyphs), Fg: fg, Bg: bg}
	}
	return sheet, nil
}

// LoadStyleSheet loads the embedded styles.json.
func LoadStyleSheet() (*StyleSheet, error) {
	file, err := Load[StylesFile]("styles.json")
	if err != nil {
		return nil, err
	}
	return NewStyleSheet(file.Styles)
}

// MustLoadStyleSheet loads the embedded style sheet, panicking on error.
func MustLoadStyleSheet() *StyleSheet {
	sheet, err := LoadStyleSheet()
	if err != nil {
		panic(err)
	}
	return sheet
}

// Get returns the style of a kind, or a magenta '?' for kinds without one.
func (s *StyleSheet) Get(kind world.Kind) Style {
	if style, ok := s.styles[kind]; ok {
		return style
	}
	return s.fallback
}

// Has returns true if the sheet defines a style for kind.
func (s *StyleSheet) Has(kind world.Kind) bool {
	_, ok := s.styles[kind]
	return ok
}
