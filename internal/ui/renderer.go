package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cavedash/internal/gamedata"
	"github.com/samdwyer/cavedash/internal/world"
)

// hudRows is the number of screen rows above the cave.
const hudRows = 1

var (
	hudStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	hudDimStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	alertStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	playerColors = []tcell.Color{tcell.ColorLightSkyBlue, tcell.ColorLightPink, tcell.ColorLightGreen, tcell.ColorKhaki}
)

// Renderer handles drawing the cave to the screen.
type Renderer struct {
	screen *Screen
	styles *gamedata.StyleSheet
}

// NewRenderer creates a new renderer for the given screen and tile styles.
func NewRenderer(screen *Screen, styles *gamedata.StyleSheet) *Renderer {
	return &Renderer{screen: screen, styles: styles}
}

// Render draws the HUD, the cave and the status line.
// The cave's y axis grows upward, so cave row y lands on screen row top+h-1-y.
func (r *Renderer) Render(cave *world.Cave, message string) {
	r.screen.Clear()

	r.renderHUD(cave)

	sw, sh := r.screen.Size()
	ox, oy := Viewport(cave, sw, sh-hudRows-1)
	w, h := cave.Width(), cave.Height()
	for y := 0; y < h; y++ {
		row := hudRows + (h - 1 - y) - oy
		if row < hudRows || row >= sh-1 {
			continue
		}
		for x := ox; x < w && x-ox < sw; x++ {
			glyph, style := r.cell(cave, x, y)
			r.screen.SetContent(x-ox, row, glyph, style)
		}
	}

	if msg := statusMessage(cave, message); msg != "" {
		r.screen.SetString(0, sh-1, msg, alertStyle)
	}
	r.screen.Show()
}

// cell returns the glyph and style of the front tile, or of the background tile when the
// front cell is empty.
func (r *Renderer) cell(cave *world.Cave, x, y int) (rune, tcell.Style) {
	t := cave.At(x, y)
	if t == nil {
		t = cave.Back(x, y)
	}
	if t == nil {
		return ' ', tcell.StyleDefault
	}
	st := r.styles.Get(t.Kind())
	return st.Glyph(t.Skin()), st.TCellStyle()
}

func (r *Renderer) renderHUD(cave *world.Cave) {
	x := r.screen.SetString(0, 0, fmt.Sprintf("%d. %s", cave.Level()+1, cave.Name()), hudStyle)
	x = r.screen.SetString(x+2, 0, fmt.Sprintf("Diamonds %d/%d", cave.Collected(), cave.Goal()), hudStyle)
	if cave.TimeLimit() > 0 {
		x = r.screen.SetString(x+2, 0, fmt.Sprintf("Time %3.0f", cave.TimeRemaining()), hudStyle)
	}
	for i, p := range cave.Players() {
		style := hudStyle.Foreground(playerColors[i%len(playerColors)])
		if !p.IsAlive() {
			style = hudDimStyle
		}
		x = r.screen.SetString(x+2, 0, fmt.Sprintf("P%d ♥%d %d", p.ID+1, p.Lives, p.Score()), style)
	}
}

// statusMessage returns the line shown under the cave.
func statusMessage(cave *world.Cave, message string) string {
	if message != "" {
		return message
	}
	switch cave.Status() {
	case world.StatusPaused:
		return "Paused - press p to resume"
	case world.StatusSucceeded:
		return "Level complete!"
	case world.StatusFailed:
		return "Ouch!"
	case world.StatusGameOver:
		return "Game over - press F5 to restart"
	case world.StatusNotLoaded:
		return "No level loaded"
	}
	if cave.IsComplete() {
		return "Exit open"
	}
	return ""
}

// Viewport returns the cave coordinates of the top-left visible column and the first
// visible screen row offset, keeping the miners centered when the cave does not fit.
func Viewport(cave *world.Cave, width, height int) (ox, oy int) {
	w, h := cave.Width(), cave.Height()
	cx, cy, n := 0, 0, 0
	for _, t := range cave.Tiles(world.KindMiner, world.KindGirl) {
		cx += t.Pos().X
		cy += h - 1 - t.Pos().Y
		n++
	}
	if n == 0 {
		cx, cy, n = w/2, h/2, 1
	}
	return scroll(cx/n, w, width), scroll(cy/n, h, height)
}

// scroll centers focus in a window of size view over a span of length size.
func scroll(focus, size, view int) int {
	if view <= 0 || size <= view {
		return 0
	}
	return min(max(focus-view/2, 0), size-view)
}
