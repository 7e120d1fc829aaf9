package maze

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// ErrInvalidMaze reports a malformed layout: inconsistent row lengths,
// unknown characters, or a start/exit count other than exactly one each.
var ErrInvalidMaze = errors.New("invalid maze")

// Grid is an immutable parsed maze. It is safe to share across concurrent
// readers; no method mutates it after Parse returns.
type Grid struct {
	cells  [][]CellType
	width  int
	height int
	start  Position
	exit   Position
}

// Parse converts a rectangular character layout into a Grid using the
// provided symbol bindings.
func Parse(rows []string, sym Symbols) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidMaze)
	}

	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrInvalidMaze)
	}

	g := &Grid{
		cells:  make([][]CellType, len(rows)),
		width:  width,
		height: len(rows),
	}

	startCount, exitCount := 0, 0
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidMaze, y, len(row), width)
		}
		g.cells[y] = make([]CellType, width)
		for x := 0; x < width; x++ {
			cell, ok := sym.cellFor(row[x])
			if !ok {
				return nil, fmt.Errorf("%w: unknown character %q at row %d, col %d", ErrInvalidMaze, row[x], y, x)
			}
			g.cells[y][x] = cell
			switch cell {
			case Start:
				startCount++
				g.start = Position{X: x, Y: y}
			case Exit:
				exitCount++
				g.exit = Position{X: x, Y: y}
			}
		}
	}

	if startCount != 1 {
		return nil, fmt.Errorf("%w: found %d start cells, want exactly 1", ErrInvalidMaze, startCount)
	}
	if exitCount != 1 {
		return nil, fmt.Errorf("%w: found %d exit cells, want exactly 1", ErrInvalidMaze, exitCount)
	}

	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Start returns the unique start position.
func (g *Grid) Start() Position { return g.start }

// Exit returns the unique exit position.
func (g *Grid) Exit() Position { return g.exit }

// InBounds reports whether a position lies on the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// At returns the cell type at p. Out-of-bounds positions read as Wall.
func (g *Grid) At(p Position) CellType {
	if !g.InBounds(p) {
		return Wall
	}
	return g.cells[p.Y][p.X]
}

// Fixed scan order keeps every traversal deterministic.
var directions = [4]Position{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// Neighbors returns the up-to-four orthogonally adjacent passable cells,
// excluding walls and out-of-bounds positions.
func (g *Grid) Neighbors(p Position) []Neighbor {
	out := make([]Neighbor, 0, 4)
	for _, d := range directions {
		np := Position{X: p.X + d.X, Y: p.Y + d.Y}
		if !g.InBounds(np) {
			continue
		}
		if cell := g.cells[np.Y][np.X]; cell != Wall {
			out = append(out, Neighbor{Pos: np, Cell: cell})
		}
	}
	return out
}

// Reachable returns the set of positions reachable from the start cell by
// orthogonal moves through passable cells.
func (g *Grid) Reachable() mapset.Set[Position] {
	seen := mapset.New[Position]()
	seen.Put(g.start)
	queue := []Position{g.start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur) {
			if !seen.Has(n.Pos) {
				seen.Put(n.Pos)
				queue = append(queue, n.Pos)
			}
		}
	}
	return seen
}
