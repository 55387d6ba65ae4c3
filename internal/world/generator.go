package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cavedash/internal/telemetry"
)

const (
	// Default generated cave dimensions, in cells.
	DefaultCaveWidth  = 40
	DefaultCaveHeight = 22

	// BSP parameters
	minChamberSize = 4
	maxChamberSize = 9
	minLeafSize    = 6

	// Odds of a boulder and a diamond on a chamber cell, out of 100.
	boulderOdds = 12
	diamondOdds = 6
)

// ErrLevelIndex is returned for level indices outside a level source.
var ErrLevelIndex = errors.New("level index out of range")

// Chamber is a rectangular area carved into a generated cave.
// Coordinates are map rows: Y=0 is the top row.
type Chamber struct {
	X, Y          int
	Width, Height int
}

// Center returns the center cell of the chamber.
func (c Chamber) Center() (int, int) {
	return c.X + c.Width/2, c.Y + c.Height/2
}

// Contains returns true if the cell is inside the chamber.
func (c Chamber) Contains(x, y int) bool {
	return x >= c.X && x < c.X+c.Width && y >= c.Y && y < c.Y+c.Height
}

// Generator builds random caves: brick rock with soil chambers joined by
// tunnels, an entry in the first chamber and an exit in the last one.
type Generator struct {
	Width    int
	Height   int
	rng      *rand.Rand
	cells    [][]rune
	chambers []Chamber
}

// NewGenerator creates a generator for caves of the given size.
func NewGenerator(width, height int, rng *rand.Rand) *Generator {
	return &Generator{
		Width:  max(width, minLeafSize+2),
		Height: max(height, minLeafSize+2),
		rng:    rng,
	}
}

// Chambers returns the chambers carved by the last Generate call.
func (g *Generator) Chambers() []Chamber {
	return g.chambers
}

// Generate creates a new cave layout using binary space partitioning.
func (g *Generator) Generate(ctx context.Context, name string) Level {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "cave.generate")
	defer span.End()

	g.cells = make([][]rune, g.Height)
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat("w", g.Width))
		g.cells[y][0], g.cells[y][g.Width-1] = 'W', 'W'
	}
	for x := 0; x < g.Width; x++ {
		g.cells[0][x], g.cells[g.Height-1][x] = 'W', 'W'
	}
	g.chambers = g.chambers[:0]

	root := &bspNode{x: 1, y: 1, width: g.Width - 2, height: g.Height - 2}
	g.splitNode(root)
	g.createChambers(root)
	if len(g.chambers) == 0 {
		whole := Chamber{X: 1, Y: 1, Width: g.Width - 2, Height: g.Height - 2}
		g.chambers = append(g.chambers, whole)
		g.fillChamber(whole)
	}
	g.connectChambers(root)
	g.populate()

	diamonds := 0
	rows := make([]string, g.Height)
	for y, row := range g.cells {
		rows[y] = string(row)
		diamonds += strings.Count(rows[y], "d")
	}
	level := Level{
		Name:      name,
		Goal:      diamonds / 2,
		TimeLimit: float64(150 + diamonds*5),
		Rows:      rows,
	}

	span.SetAttributes(
		attribute.Int("cave.width", g.Width),
		attribute.Int("cave.height", g.Height),
		attribute.Int("cave.chamber_count", len(g.chambers)),
		attribute.Int("cave.diamonds", diamonds),
	)
	return level
}

// bspNode represents a node in the BSP tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	chamber       *Chamber
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// splitNode recursively splits a node along its longer side.
func (g *Generator) splitNode(node *bspNode) {
	var horizontal bool
	switch {
	case node.width > node.height && node.width >= minLeafSize*2:
		horizontal = false
	case node.height >= minLeafSize*2:
		horizontal = true
	case node.width >= minLeafSize*2:
		horizontal = false
	default:
		return
	}

	size := node.width
	if horizontal {
		size = node.height
	}
	lo, hi := minLeafSize, size-minLeafSize
	if hi < lo {
		return
	}
	split := lo + g.rng.Intn(hi-lo+1)

	if horizontal {
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: split}
		node.right = &bspNode{x: node.x, y: node.y + split, width: node.width, height: node.height - split}
	} else {
		node.left = &bspNode{x: node.x, y: node.y, width: split, height: node.height}
		node.right = &bspNode{x: node.x + split, y: node.y, width: node.width - split, height: node.height}
	}
	g.splitNode(node.left)
	g.splitNode(node.right)
}

// createChambers carves one chamber in every leaf large enough to hold it.
func (g *Generator) createChambers(node *bspNode) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		g.createChambers(node.left)
		g.createChambers(node.right)
		return
	}

	w := min(minChamberSize+g.rng.Intn(maxChamberSize-minChamberSize+1), node.width-2)
	h := min(minChamberSize+g.rng.Intn(maxChamberSize-minChamberSize+1), node.height-2)
	if w < minChamberSize || h < minChamberSize {
		return
	}
	ch := Chamber{
		X:      node.x + 1 + g.rng.Intn(node.width-w-1),
		Y:      node.y + 1 + g.rng.Intn(node.height-h-1),
		Width:  w,
		Height: h,
	}
	node.chamber = &ch
	g.chambers = append(g.chambers, ch)
	g.fillChamber(ch)
}

// fillChamber carves soil with scattered boulders and diamonds.
func (g *Generator) fillChamber(ch Chamber) {
	for y := ch.Y; y < ch.Y+ch.Height; y++ {
		for x := ch.X; x < ch.X+ch.Width; x++ {
			r := '.'
			switch n := g.rng.Intn(100); {
			case n < diamondOdds:
				r = 'd'
			case n < diamondOdds+boulderOdds:
				r = 'r'
			}
			g.carve(x, y, r)
		}
	}
}

// connectChambers joins sibling subtrees with soil tunnels.
func (g *Generator) connectChambers(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}
	g.connectChambers(node.left)
	g.connectChambers(node.right)

	a, b := g.anyChamber(node.left), g.anyChamber(node.right)
	if a == nil || b == nil {
		return
	}
	x1, y1 := a.Center()
	x2, y2 := b.Center()
	if g.rng.Intn(2) == 0 {
		g.tunnel(x1, y1, x2, y1)
		g.tunnel(x2, y1, x2, y2)
	} else {
		g.tunnel(x1, y1, x1, y2)
		g.tunnel(x1, y2, x2, y2)
	}
}

func (g *Generator) anyChamber(node *bspNode) *Chamber {
	if node == nil {
		return nil
	}
	if node.chamber != nil {
		return node.chamber
	}
	if ch := g.anyChamber(node.left); ch != nil {
		return ch
	}
	return g.anyChamber(node.right)
}

// tunnel carves soil along a horizontal or vertical segment.
func (g *Generator) tunnel(x1, y1, x2, y2 int) {
	x1, x2 = min(x1, x2), max(x1, x2)
	y1, y2 = min(y1, y2), max(y1, y2)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			g.carve(x, y, '.')
		}
	}
}

// populate places the doors and one insect in each middle chamber.
// The cells around the entry are cleared so nothing falls on arriving miners.
func (g *Generator) populate() {
	first, last := g.chambers[0], g.chambers[len(g.chambers)-1]

	ex, ey := first.Center()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			g.carve(ex+dx, ey+dy, '.')
		}
	}
	g.carve(ex, ey-1, ' ')
	g.carve(ex, ey, 'E')

	if len(g.chambers) > 1 {
		xx, xy := last.Center()
		g.carve(xx, xy, 'X')
	} else {
		g.carve(first.X, first.Y+first.Height-1, 'X')
	}

	for i, ch := range g.chambers {
		if i == 0 || i == len(g.chambers)-1 {
			continue
		}
		insect := 'f'
		if i%2 == 0 {
			insect = 'b'
		}
		x, y := ch.X+ch.Width-1, ch.Y+ch.Height-1
		g.carve(x, y, insect)
		g.carve(x-1, y, ' ')
	}
}

// carve writes r to an interior cell, leaving the metal border intact.
func (g *Generator) carve(x, y int, r rune) {
	if x > 0 && x < g.Width-1 && y > 0 && y < g.Height-1 {
		g.cells[y][x] = r
	}
}

// GeneratedLevels is a level source of random caves, each derived from Seed and its index.
type GeneratedLevels struct {
	Seed          int64
	N             int
	Width, Height int
}

// Count returns the number of generated levels.
func (l GeneratedLevels) Count() int { return l.N }

// Level generates level i.
func (l GeneratedLevels) Level(i int) (Level, error) {
	if i < 0 || i >= l.N {
		return Level{}, fmt.Errorf("%w: %d", ErrLevelIndex, i)
	}
	w, h := l.Width, l.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultCaveWidth, DefaultCaveHeight
	}
	gen := NewGenerator(w, h, rand.New(rand.NewSource(l.Seed+int64(i))))
	return gen.Generate(context.Background(), fmt.Sprintf("Random cave %d", i+1)), nil
}
