// Package entity provides the players that control miners in a cave.
package entity

const (
	// StartingLives is the number of lives a new player begins with.
	StartingLives = 3
	// MaxLives caps the lives a player can accumulate.
	MaxLives = 9
	// ScorePerLife is the score interval that grants an extra life.
	ScorePerLife = 100
)

// Direction is a unit input direction. DY grows upward, matching cave coordinates.
type Direction struct {
	DX, DY int
}

// Input directions.
var (
	DirUp    = Direction{0, +1}
	DirDown  = Direction{0, -1}
	DirLeft  = Direction{-1, 0}
	DirRight = Direction{+1, 0}
)

// Player represents one participant in the session.
// Miners reference their player for input, score and lives.
type Player struct {
	ID    int // Zero-based player number, also selects the miner skin
	Lives int

	score      int
	directions []Direction
}

// NewPlayer creates a player with the starting number of lives.
func NewPlayer(id int) *Player {
	return &Player{
		ID:    id,
		Lives: StartingLives,
	}
}

// NewPlayers creates n players numbered from zero.
func NewPlayers(n int) []*Player {
	players := make([]*Player, n)
	for i := range players {
		players[i] = NewPlayer(i)
	}
	return players
}

// Score returns the accumulated score.
func (p *Player) Score() int {
	return p.score
}

// AddScore adds points and reports whether an extra life was granted.
func (p *Player) AddScore(points int) bool {
	before := p.score / ScorePerLife
	p.score += points
	if p.score/ScorePerLife > before && p.Lives < MaxLives {
		p.Lives++
		return true
	}
	return false
}

// Kill removes one life.
func (p *Player) Kill() {
	if p.Lives > 0 {
		p.Lives--
	}
}

// IsAlive returns true if the player has lives left.
func (p *Player) IsAlive() bool {
	return p.Lives > 0
}

// SetDirections replaces the held input directions, in priority order.
func (p *Player) SetDirections(dirs ...Direction) {
	p.directions = append(p.directions[:0], dirs...)
}

// Directions returns the held input directions, in priority order.
func (p *Player) Directions() []Direction {
	return p.directions
}

// AnyAlive returns true if at least one player has lives left.
func AnyAlive(players []*Player) bool {
	for _, p := range players {
		if p.IsAlive() {
			return true
		}
	}
	return false
}
