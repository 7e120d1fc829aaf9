// Package battle searches turn sequences over a combat state space to
// beat the boss in the fewest turns.
//
// The strategist runs best-first branch-and-bound: a priority frontier
// orders nodes by f = g + h where g is turns spent and h is an
// admissible lower bound on turns remaining, so the first goal state
// popped is turn-optimal.
package battle

import (
	"context"
	"fmt"

	"github.com/mazequest/engine/game/search"
)

// node wraps a battle state with its accumulated cost and the action
// trail that produced it.
type node struct {
	st      state
	g       int
	h       int
	actions []Action
}

func (n *node) f() int { return n.g + n.h }

// FindOptimalPlan searches for the shortest winning turn sequence. The
// context is checked on every frontier pop; cancellation surfaces as
// search.ErrCancelled.
func FindOptimalPlan(ctx context.Context, setup Setup) (*Plan, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	maxDamage := setup.maxDamage()
	if maxDamage <= 0 {
		return nil, fmt.Errorf("%w: no skill deals damage", ErrUnwinnable)
	}
	turnCap := setup.turnCap()

	root := &node{
		st: state{
			bossHP:    setup.BossHP,
			playerHP:  setup.PlayerHP,
			resources: setup.Resources,
			cooldowns: make([]int, len(setup.Skills)),
		},
		h: heuristic(setup.BossHP, maxDamage),
	}

	// Ties resolve by deeper g first, then state key, keeping pops
	// deterministic across runs.
	frontier := search.NewFrontier[*node](func(a, b *node) bool {
		if a.f() != b.f() {
			return a.f() < b.f()
		}
		if a.g != b.g {
			return a.g > b.g
		}
		return a.st.key() < b.st.key()
	})
	frontier.Push(root)

	visited := search.NewVisited[string]()
	var bound search.Bound
	var stats Stats

	for frontier.Len() > 0 {
		if err := search.Checkpoint(ctx); err != nil {
			return nil, err
		}

		cur, _ := frontier.Pop()
		stats.NodesExplored++

		if cur.st.bossHP <= 0 {
			// Admissible h makes the first popped goal optimal.
			stats.StatesCached = visited.Len()
			return &Plan{Actions: cur.actions, Turns: cur.g, Stats: stats}, nil
		}

		key := cur.st.key()
		if visited.Dominated(key, cur.g) {
			stats.NodesPruned++
			continue
		}
		visited.Record(key, cur.g)

		for _, child := range expand(setup, cur, maxDamage) {
			if child.st.turn > turnCap || bound.Cutoff(child.f()) {
				stats.NodesPruned++
				continue
			}
			if child.st.playerHP <= 0 {
				stats.NodesPruned++
				continue
			}
			if child.st.bossHP <= 0 {
				bound.Update(child.g)
			}
			frontier.Push(child)
		}
	}

	return nil, fmt.Errorf("%w within %d turns", ErrUnwinnable, turnCap)
}

// heuristic is the admissible lower bound on remaining turns: even
// landing the strongest skill every turn takes this many.
func heuristic(bossHP, maxDamage int) int {
	if bossHP <= 0 {
		return 0
	}
	return (bossHP + maxDamage - 1) / maxDamage
}

// expand generates one child per usable skill, or a single pass child
// when nothing is usable. Cooldowns tick down by one on every turn; the
// chosen skill's resets to its configured length. The boss counters for
// its configured damage each turn it survives.
func expand(setup Setup, cur *node, maxDamage int) []*node {
	children := make([]*node, 0, len(setup.Skills)+1)

	for i, sk := range setup.Skills {
		if cur.st.cooldowns[i] > 0 || sk.Cost > cur.st.resources {
			continue
		}
		st := tick(cur.st)
		st.bossHP -= sk.Damage
		if st.bossHP < 0 {
			st.bossHP = 0
		}
		st.resources -= sk.Cost
		st.cooldowns[i] = sk.Cooldown
		if st.bossHP > 0 {
			st.playerHP -= setup.CounterDamage
		}
		children = append(children, child(cur, st, sk.Name, maxDamage))
	}

	if len(children) == 0 {
		st := tick(cur.st)
		st.playerHP -= setup.CounterDamage
		children = append(children, child(cur, st, PassAction, maxDamage))
	}
	return children
}

// tick copies the state into the next turn with all cooldowns reduced.
func tick(st state) state {
	next := st
	next.turn++
	next.cooldowns = make([]int, len(st.cooldowns))
	for i, cd := range st.cooldowns {
		if cd > 0 {
			next.cooldowns[i] = cd - 1
		}
	}
	return next
}

func child(parent *node, st state, action string, maxDamage int) *node {
	actions := make([]Action, len(parent.actions), len(parent.actions)+1)
	copy(actions, parent.actions)
	actions = append(actions, Action{Turn: st.turn, Skill: action})
	return &node{
		st:      st,
		g:       st.turn,
		h:       heuristic(st.bossHP, maxDamage),
		actions: actions,
	}
}
