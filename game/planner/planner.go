// Package planner computes resource-optimal routes through a maze grid.
//
// The optimal planner runs a Bellman–Ford-style relaxation over the
// lexicographic (maximize resource value, then minimize steps) ordering.
// Four-directional movement makes the grid cyclic and walks may revisit
// cells, but each Gold or Trap cell pays out only the first time a walk
// enters it. The relaxation therefore tracks states keyed by (cell,
// collected set) rather than by cell alone and sweeps them until a full
// pass produces no change.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/mazequest/engine/game/maze"
	"github.com/mazequest/engine/game/search"
)

// ErrUnreachableExit reports that no walk from start ever relaxed the
// exit cell.
var ErrUnreachableExit = errors.New("exit unreachable from start")

// Collected sets are bitmasks over the grid's resource cells.
const maxResourceCells = 64

// Plan is the immutable result artifact of a planner run: the full route
// from start to exit, the resource value it collects, and its length.
type Plan struct {
	Route  []maze.Position `json:"route"`
	Value  int             `json:"value"`
	Steps  int             `json:"steps"`
	Passes int             `json:"passes"`
}

// stateKey identifies one point of the search space: a cell together
// with the set of resource cells already collected on the way there.
type stateKey struct {
	pos  maze.Position
	mask uint64
}

// pair is a (value, steps) point accepted for a state, with the state it
// was relaxed from. A state can accumulate several accepted pairs as
// better walks are found; route reconstruction matches against the full
// history rather than a single overwritten predecessor link.
type pair struct {
	value int
	steps int
	pred  stateKey
	root  bool
}

type cellState struct {
	best    pair
	history []pair
}

// dominates reports whether the candidate pair strictly improves on the
// stored pair under the (max value, then min steps) ordering.
func (c *cellState) dominates(value, steps int) bool {
	if value != c.best.value {
		return value > c.best.value
	}
	return steps < c.best.steps
}

func (c *cellState) accept(p pair) {
	c.best = p
	c.history = append(c.history, p)
}

// table holds the materialized states. Discovery order doubles as the
// scan order, keeping every run over the same grid deterministic.
type table struct {
	states map[stateKey]*cellState
	order  []stateKey
}

func (t *table) get(k stateKey) (*cellState, bool) {
	s, ok := t.states[k]
	return s, ok
}

func (t *table) materialize(k stateKey, p pair) {
	s := &cellState{}
	s.accept(p)
	t.states[k] = s
	t.order = append(t.order, k)
}

// FindOptimalPath computes the resource-maximizing, step-minimizing walk
// from the grid's start to its exit, counting each resource cell at most
// once. The context is checked between relaxation passes; cancellation
// surfaces as search.ErrCancelled.
func FindOptimalPath(ctx context.Context, g *maze.Grid) (*Plan, error) {
	resources, err := indexResources(g)
	if err != nil {
		return nil, err
	}

	t := &table{states: make(map[stateKey]*cellState)}
	t.materialize(stateKey{pos: g.Start()}, pair{root: true})

	// Every improving walk visits each state at most once, so the number
	// of materialized states bounds the passes needed for the fixed point.
	passes := 0
	for {
		if err := search.Checkpoint(ctx); err != nil {
			return nil, err
		}
		changed := relaxPass(g, resources, t)
		passes++
		if !changed || passes > len(t.order) {
			break
		}
	}

	exitKey, ok := bestExitState(g, t)
	if !ok {
		exit := g.Exit()
		return nil, fmt.Errorf("%w: exit at (%d,%d)", ErrUnreachableExit, exit.X, exit.Y)
	}

	route, err := reconstruct(g, resources, t, exitKey)
	if err != nil {
		return nil, err
	}

	best := t.states[exitKey].best
	return &Plan{
		Route:  route,
		Value:  best.value,
		Steps:  best.steps,
		Passes: passes,
	}, nil
}

// indexResources assigns a bit to every Gold and Trap cell, scanning in
// row-major order.
func indexResources(g *maze.Grid) (map[maze.Position]uint64, error) {
	resources := make(map[maze.Position]uint64)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := maze.Position{X: x, Y: y}
			switch g.At(p) {
			case maze.Gold, maze.Trap:
				if len(resources) == maxResourceCells {
					return nil, fmt.Errorf("%w: more than %d resource cells", maze.ErrInvalidMaze, maxResourceCells)
				}
				resources[p] = 1 << uint64(len(resources))
			}
		}
	}
	return resources, nil
}

// relaxPass scans every materialized state in discovery order, relaxing
// each neighbor. Stepping onto an uncollected resource cell moves to the
// enlarged collected set and credits the cell's value; any other step
// keeps the set and only costs a step. States discovered mid-pass are
// scanned before the pass ends. Returns true if anything improved.
func relaxPass(g *maze.Grid, resources map[maze.Position]uint64, t *table) bool {
	changed := false
	for i := 0; i < len(t.order); i++ {
		key := t.order[i]
		cur := t.states[key].best
		for _, n := range g.Neighbors(key.pos) {
			nk := stateKey{pos: n.Pos, mask: key.mask}
			value := cur.value
			steps := cur.steps + 1
			if bit, isResource := resources[n.Pos]; isResource && key.mask&bit == 0 {
				nk.mask |= bit
				value += maze.ResourceValue(n.Cell)
			}
			if ns, ok := t.get(nk); ok {
				if ns.dominates(value, steps) {
					ns.accept(pair{value: value, steps: steps, pred: key})
					changed = true
				}
			} else {
				t.materialize(nk, pair{value: value, steps: steps, pred: key})
				changed = true
			}
		}
	}
	return changed
}

// bestExitState picks the Pareto-best state at the exit cell across all
// collected sets, scanning in discovery order so ties resolve
// deterministically.
func bestExitState(g *maze.Grid, t *table) (stateKey, bool) {
	exit := g.Exit()
	var best stateKey
	found := false
	for _, key := range t.order {
		if key.pos != exit {
			continue
		}
		if !found {
			best, found = key, true
			continue
		}
		cand := t.states[key].best
		if t.states[best].dominates(cand.value, cand.steps) {
			best = key
		}
	}
	return best, found
}

// reconstruct walks the acceptance history back from the exit state's
// final (value, steps) pair. Every accepted pair was derived from a pair
// then current at its predecessor, so the exact chain exists in the
// histories.
func reconstruct(g *maze.Grid, resources map[maze.Position]uint64, t *table, exitKey stateKey) ([]maze.Position, error) {
	start := g.Start()
	want := t.states[exitKey].best

	rev := make([]maze.Position, 0, want.steps+1)
	cur := exitKey
	for {
		rev = append(rev, cur.pos)
		entry, ok := findPair(t.states[cur].history, want.value, want.steps)
		if !ok {
			return nil, fmt.Errorf("%w: broken relaxation chain at (%d,%d)", ErrUnreachableExit, cur.pos.X, cur.pos.Y)
		}
		if entry.root {
			break
		}
		// The pair stored here was pred's pair plus one step, plus this
		// cell's value when the step collected it.
		delta := 0
		if bit, isResource := resources[cur.pos]; isResource && cur.mask&bit != 0 && entry.pred.mask&bit == 0 {
			delta = maze.ResourceValue(g.At(cur.pos))
		}
		want = pair{
			value: entry.value - delta,
			steps: entry.steps - 1,
		}
		cur = entry.pred
	}
	if cur.pos != start {
		return nil, fmt.Errorf("%w: relaxation chain ends off-start at (%d,%d)", ErrUnreachableExit, cur.pos.X, cur.pos.Y)
	}

	route := make([]maze.Position, len(rev))
	for i := range rev {
		route[i] = rev[len(rev)-1-i]
	}
	return route, nil
}

// findPair locates the most recent accepted pair matching (value, steps).
func findPair(history []pair, value, steps int) (pair, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].value == value && history[i].steps == steps {
			return history[i], true
		}
	}
	return pair{}, false
}
