package planner

import (
	"context"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/mazequest/engine/game/maze"
	"github.com/mazequest/engine/game/search"
)

// DefaultVisionRange bounds how far the greedy collector can see, in
// Manhattan distance.
const DefaultVisionRange = 3

// GreedyResult is the walk produced by the fallback collector together
// with the value it picked up along the way.
type GreedyResult struct {
	Route     []maze.Position `json:"route"`
	Collected int             `json:"collected"`
}

// GreedyCollect is the fallback strategy: from the start it repeatedly
// walks to the most valuable resource visible within vision range, then
// heads for the exit. It guarantees a valid walk ending at the exit but
// makes no optimality claim.
func GreedyCollect(ctx context.Context, g *maze.Grid, vision int) (*GreedyResult, error) {
	if vision <= 0 {
		vision = DefaultVisionRange
	}

	cur := g.Start()
	route := []maze.Position{cur}
	collected := 0
	taken := mapset.New[maze.Position]()

	// Each iteration consumes one resource, so reachable resources bound
	// the loop.
	maxLegs := g.Width() * g.Height()
	for leg := 0; leg < maxLegs; leg++ {
		if err := search.Checkpoint(ctx); err != nil {
			return nil, err
		}

		target, ok := bestVisibleResource(g, cur, vision, taken)
		if !ok {
			break
		}
		path := bfsPath(g, cur, target)
		if path == nil {
			// Visible but walled off; ignore it from now on.
			taken.Put(target)
			continue
		}
		for _, p := range path[1:] {
			route = append(route, p)
			if !taken.Has(p) {
				if v := maze.ResourceValue(g.At(p)); v != 0 {
					collected += v
					taken.Put(p)
				}
			}
		}
		cur = target
	}

	tail := bfsPath(g, cur, g.Exit())
	if tail == nil {
		return nil, fmt.Errorf("%w: no route to exit from (%d,%d)", ErrUnreachableExit, cur.X, cur.Y)
	}
	for _, p := range tail[1:] {
		route = append(route, p)
		if !taken.Has(p) {
			if v := maze.ResourceValue(g.At(p)); v != 0 {
				collected += v
				taken.Put(p)
			}
		}
	}

	return &GreedyResult{Route: route, Collected: collected}, nil
}

// bestVisibleResource scans the vision window around pos and picks the
// uncollected positive-value cell with the best value-to-distance ratio.
// Ties resolve by scan order, keeping the walk deterministic.
func bestVisibleResource(g *maze.Grid, pos maze.Position, vision int, taken mapset.Set[maze.Position]) (maze.Position, bool) {
	var best maze.Position
	bestScore := 0.0
	found := false

	for dy := -vision; dy <= vision; dy++ {
		for dx := -vision; dx <= vision; dx++ {
			dist := abs(dx) + abs(dy)
			if dist == 0 || dist > vision {
				continue
			}
			p := maze.Position{X: pos.X + dx, Y: pos.Y + dy}
			if !g.InBounds(p) || taken.Has(p) {
				continue
			}
			v := maze.ResourceValue(g.At(p))
			if v <= 0 {
				continue
			}
			score := float64(v) / float64(dist)
			if !found || score > bestScore {
				best = p
				bestScore = score
				found = true
			}
		}
	}
	return best, found
}

// bfsPath returns the shortest walk from a to b inclusive, or nil when b
// is unreachable.
func bfsPath(g *maze.Grid, a, b maze.Position) []maze.Position {
	if a == b {
		return []maze.Position{a}
	}
	pred := map[maze.Position]maze.Position{a: a}
	queue := []maze.Position{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur) {
			if _, seen := pred[n.Pos]; seen {
				continue
			}
			pred[n.Pos] = cur
			if n.Pos == b {
				return buildPath(pred, a, b)
			}
			queue = append(queue, n.Pos)
		}
	}
	return nil
}

func buildPath(pred map[maze.Position]maze.Position, a, b maze.Position) []maze.Position {
	var rev []maze.Position
	for cur := b; cur != a; cur = pred[cur] {
		rev = append(rev, cur)
	}
	rev = append(rev, a)
	out := make([]maze.Position, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
