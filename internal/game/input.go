package game

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/cavedash/internal/entity"
)

// HoldDuration is how long a key press counts as held. Terminals report no key
// releases, so a held key is kept alive by the terminal's key repeat.
const HoldDuration = 350 * time.Millisecond

// binding maps a key to a player's direction.
type binding struct {
	player int
	dir    entity.Direction
}

// keyBindings holds the special keys: arrows for player one.
var keyBindings = map[tcell.Key]binding{
	tcell.KeyUp:    {0, entity.DirUp},
	tcell.KeyDown:  {0, entity.DirDown},
	tcell.KeyLeft:  {0, entity.DirLeft},
	tcell.KeyRight: {0, entity.DirRight},
}

// runeBindings holds WASD for player two, IJKL for player three and the
// numeric keypad for player four.
var runeBindings = map[rune]binding{
	'w': {1, entity.DirUp},
	's': {1, entity.DirDown},
	'a': {1, entity.DirLeft},
	'd': {1, entity.DirRight},
	'i': {2, entity.DirUp},
	'k': {2, entity.DirDown},
	'j': {2, entity.DirLeft},
	'l': {2, entity.DirRight},
	'8': {3, entity.DirUp},
	'2': {3, entity.DirDown},
	'4': {3, entity.DirLeft},
	'6': {3, entity.DirRight},
}

// lookupBinding returns the direction bound to a key event.
func lookupBinding(ev *tcell.EventKey) (binding, bool) {
	if ev.Key() == tcell.KeyRune {
		b, ok := runeBindings[ev.Rune()]
		return b, ok
	}
	b, ok := keyBindings[ev.Key()]
	return b, ok
}

// press is one held direction.
type press struct {
	dir   entity.Direction
	until time.Time
}

// Input tracks the held directions of every player.
type Input struct {
	hold time.Duration
	held [MaxPlayers][]press
}

// NewInput creates an input tracker with the given hold duration.
func NewInput(hold time.Duration) *Input {
	return &Input{hold: hold}
}

// Press marks dir as held by player until now plus the hold duration.
// The most recent press takes priority.
func (in *Input) Press(player int, dir entity.Direction, now time.Time) {
	if player < 0 || player >= MaxPlayers {
		return
	}
	held := in.held[player][:0]
	for _, p := range in.held[player] {
		if p.dir != dir {
			held = append(held, p)
		}
	}
	in.held[player] = append([]press{{dir: dir, until: now.Add(in.hold)}}, held...)
}

// Release drops every held direction.
func (in *Input) Release() {
	for i := range in.held {
		in.held[i] = nil
	}
}

// Apply expires old presses and hands the held directions to the players.
func (in *Input) Apply(players []*entity.Player, now time.Time) {
	for i, p := range players {
		if i >= MaxPlayers {
			break
		}
		live := in.held[i][:0]
		dirs := make([]entity.Direction, 0, len(in.held[i]))
		for _, pr := range in.held[i] {
			if now.Before(pr.until) {
				live = append(live, pr)
				dirs = append(dirs, pr.dir)
			}
		}
		in.held[i] = live
		p.SetDirections(dirs...)
	}
}
