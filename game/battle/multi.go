package battle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mazequest/engine/game/search"
)

// Monster is one opponent in a multi-target fight.
type Monster struct {
	Name string `json:"name"`
	HP   int    `json:"hp"`
}

// MultiSetup is the multi-target battle input: several monsters fought
// at once, with each skill use aimed at a chosen target. Monsters deal
// no counter damage; TargetPriority optionally ranks the preferred
// defeat order, which breaks ties between equally short plans.
type MultiSetup struct {
	Monsters       []Monster `json:"monsters"`
	Skills         []Skill   `json:"skills"`
	Resources      int       `json:"resources"`
	TargetPriority []int     `json:"target_priority,omitempty"`
	TurnCap        int       `json:"turn_cap,omitempty"`
}

// Validate checks the setup for a searchable fight.
func (s MultiSetup) Validate() error {
	if len(s.Monsters) == 0 {
		return fmt.Errorf("%w: at least one monster required", ErrInvalidSetup)
	}
	names := make(map[string]bool, len(s.Monsters))
	for i, m := range s.Monsters {
		if m.HP <= 0 {
			return fmt.Errorf("%w: monster %d HP must be positive, got %d", ErrInvalidSetup, i, m.HP)
		}
		if m.Name == "" {
			return fmt.Errorf("%w: monster %d has no name", ErrInvalidSetup, i)
		}
		if names[m.Name] {
			return fmt.Errorf("%w: duplicate monster name %q", ErrInvalidSetup, m.Name)
		}
		names[m.Name] = true
	}
	if len(s.Skills) == 0 {
		return fmt.Errorf("%w: at least one skill required", ErrInvalidSetup)
	}
	seen := make(map[string]bool, len(s.Skills))
	for i, sk := range s.Skills {
		if sk.Name == "" || sk.Name == PassAction {
			return fmt.Errorf("%w: skill %d has reserved or empty name %q", ErrInvalidSetup, i, sk.Name)
		}
		if seen[sk.Name] {
			return fmt.Errorf("%w: duplicate skill name %q", ErrInvalidSetup, sk.Name)
		}
		seen[sk.Name] = true
		if sk.Cooldown < 0 || sk.Cost < 0 {
			return fmt.Errorf("%w: skill %q has negative cooldown or cost", ErrInvalidSetup, sk.Name)
		}
	}
	if s.Resources < 0 {
		return fmt.Errorf("%w: resources must be non-negative", ErrInvalidSetup)
	}
	if s.TurnCap < 0 {
		return fmt.Errorf("%w: turn cap must be non-negative", ErrInvalidSetup)
	}
	prio := make(map[int]bool, len(s.TargetPriority))
	for _, id := range s.TargetPriority {
		if id < 0 || id >= len(s.Monsters) {
			return fmt.Errorf("%w: target priority names monster %d, have %d monsters", ErrInvalidSetup, id, len(s.Monsters))
		}
		if prio[id] {
			return fmt.Errorf("%w: target priority repeats monster %d", ErrInvalidSetup, id)
		}
		prio[id] = true
	}
	return nil
}

func (s MultiSetup) turnCap() int {
	if s.TurnCap > 0 {
		return s.TurnCap
	}
	return DefaultTurnCap
}

func (s MultiSetup) maxDamage() int {
	max := 0
	for _, sk := range s.Skills {
		if sk.Damage > max {
			max = sk.Damage
		}
	}
	return max
}

// MultiAction is one entry of a multi-target plan: the 1-based turn, the
// skill chosen (or PassAction), and the monster it targeted. Target is
// -1 for a pass.
type MultiAction struct {
	Turn   int    `json:"turn"`
	Skill  string `json:"skill"`
	Target int    `json:"target"`
}

// MultiPlan is the result artifact: the shortest winning action
// sequence, with ties between equally short plans broken by how closely
// the defeat order follows the setup's target priority.
type MultiPlan struct {
	Actions       []MultiAction `json:"actions"`
	Turns         int           `json:"turns"`
	DefeatedOrder []int         `json:"defeated_order"`
	OrderScore    int           `json:"order_score"`
	Stats         Stats         `json:"stats"`
}

// multiState is one point of the multi-target battle space. Cooldowns
// are indexed like MultiSetup.Skills; defeated records monster indices
// in the order they dropped.
type multiState struct {
	hps       []int
	resources int
	turn      int
	cooldowns []int
	defeated  []int
}

func (st multiState) key() string {
	var b strings.Builder
	for _, hp := range st.hps {
		b.WriteString(strconv.Itoa(hp))
		b.WriteByte('|')
	}
	b.WriteString(strconv.Itoa(st.resources))
	for _, cd := range st.cooldowns {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(cd))
	}
	for _, id := range st.defeated {
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

func (st multiState) remainingHP() int {
	total := 0
	for _, hp := range st.hps {
		total += hp
	}
	return total
}

func (st multiState) victory() bool { return st.remainingHP() == 0 }

type multiNode struct {
	st      multiState
	g       int
	h       int
	actions []MultiAction
}

func (n *multiNode) f() int { return n.g + n.h }

// FindMultiTargetPlan searches for the shortest turn sequence defeating
// every monster. Unlike the single-boss strategist it cannot stop at the
// first goal popped: plans of equal length are ranked by defeat-order
// score, so the search keeps an incumbent and runs the frontier down to
// the cutoff. The context is checked on every frontier pop.
func FindMultiTargetPlan(ctx context.Context, setup MultiSetup) (*MultiPlan, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	maxDamage := setup.maxDamage()
	if maxDamage <= 0 {
		return nil, fmt.Errorf("%w: no skill deals damage", ErrUnwinnable)
	}
	turnCap := setup.turnCap()

	root := &multiNode{
		st: multiState{
			hps:       initialHPs(setup),
			resources: setup.Resources,
			cooldowns: make([]int, len(setup.Skills)),
		},
	}
	root.h = heuristic(root.st.remainingHP(), maxDamage)

	frontier := search.NewFrontier[*multiNode](func(a, b *multiNode) bool {
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
	var best *MultiPlan

	for frontier.Len() > 0 {
		if err := search.Checkpoint(ctx); err != nil {
			return nil, err
		}

		cur, _ := frontier.Pop()
		stats.NodesExplored++

		if cur.st.victory() {
			score := orderScore(setup.TargetPriority, cur.st.defeated)
			if best == nil || cur.g < best.Turns || (cur.g == best.Turns && score > best.OrderScore) {
				best = &MultiPlan{
					Actions:       cur.actions,
					Turns:         cur.g,
					DefeatedOrder: append([]int(nil), cur.st.defeated...),
					OrderScore:    score,
				}
				bound.Update(cur.g)
			}
			continue
		}

		key := cur.st.key()
		if visited.Dominated(key, cur.g) {
			stats.NodesPruned++
			continue
		}
		visited.Record(key, cur.g)

		for _, child := range expandMulti(setup, cur, maxDamage) {
			if child.st.turn > turnCap || bound.Cutoff(child.f()) {
				stats.NodesPruned++
				continue
			}
			frontier.Push(child)
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w within %d turns", ErrUnwinnable, turnCap)
	}
	stats.StatesCached = visited.Len()
	best.Stats = stats
	return best, nil
}

func initialHPs(setup MultiSetup) []int {
	hps := make([]int, len(setup.Monsters))
	for i, m := range setup.Monsters {
		hps[i] = m.HP
	}
	return hps
}

// expandMulti generates one child per usable skill per living target, or
// a single pass child when nothing is usable. Tick rules match the
// single-boss strategist: cooldowns decrement on every turn and the
// chosen skill's resets afterward.
func expandMulti(setup MultiSetup, cur *multiNode, maxDamage int) []*multiNode {
	children := make([]*multiNode, 0, len(setup.Skills)*len(setup.Monsters))

	for i, sk := range setup.Skills {
		if cur.st.cooldowns[i] > 0 || sk.Cost > cur.st.resources {
			continue
		}
		for target, hp := range cur.st.hps {
			if hp <= 0 {
				continue
			}
			st := tickMulti(cur.st)
			st.hps[target] -= sk.Damage
			if st.hps[target] <= 0 {
				st.hps[target] = 0
				st.defeated = append(st.defeated, target)
			}
			st.resources -= sk.Cost
			st.cooldowns[i] = sk.Cooldown
			children = append(children, childMulti(cur, st, sk.Name, target, maxDamage))
		}
	}

	if len(children) == 0 {
		st := tickMulti(cur.st)
		children = append(children, childMulti(cur, st, PassAction, -1, maxDamage))
	}
	return children
}

func tickMulti(st multiState) multiState {
	next := st
	next.turn++
	next.hps = append([]int(nil), st.hps...)
	next.defeated = append([]int(nil), st.defeated...)
	next.cooldowns = make([]int, len(st.cooldowns))
	for i, cd := range st.cooldowns {
		if cd > 0 {
			next.cooldowns[i] = cd - 1
		}
	}
	return next
}

func childMulti(parent *multiNode, st multiState, skill string, target int, maxDamage int) *multiNode {
	actions := make([]MultiAction, len(parent.actions), len(parent.actions)+1)
	copy(actions, parent.actions)
	actions = append(actions, MultiAction{Turn: st.turn, Skill: skill, Target: target})
	return &multiNode{
		st:      st,
		g:       st.turn,
		h:       heuristic(st.remainingHP(), maxDamage),
		actions: actions,
	}
}

// orderScore rates how closely a defeat order follows the configured
// priority: a positional match earns a decaying reward, a mismatch a
// flat penalty.
func orderScore(priority, defeated []int) int {
	if len(priority) == 0 {
		return 0
	}
	score := 0
	for i, actual := range defeated {
		if i >= len(priority) {
			break
		}
		if actual == priority[i] {
			score += (len(priority) - i) * 10
		} else {
			score -= 5
		}
	}
	return score
}

// SimulateMulti replays a multi-target action sequence, enforcing the
// same cooldown, cost, and targeting rules the strategist searches
// under. It reports victory, the turns used, and the defeat order, or an
// error describing the first illegal action.
func SimulateMulti(setup MultiSetup, actions []MultiAction) (victory bool, turns int, defeated []int, err error) {
	if err := setup.Validate(); err != nil {
		return false, 0, nil, err
	}

	byName := make(map[string]int, len(setup.Skills))
	for i, sk := range setup.Skills {
		byName[sk.Name] = i
	}

	st := multiState{
		hps:       initialHPs(setup),
		resources: setup.Resources,
		cooldowns: make([]int, len(setup.Skills)),
	}

	for _, a := range actions {
		if st.victory() {
			return false, st.turn, st.defeated, fmt.Errorf("turn %d: action after victory", a.Turn)
		}

		if a.Skill == PassAction {
			if anyUsableMulti(setup, st) {
				return false, st.turn, st.defeated, fmt.Errorf("turn %d: pass while a skill is usable", a.Turn)
			}
			st = tickMulti(st)
			continue
		}

		i, ok := byName[a.Skill]
		if !ok {
			return false, st.turn, st.defeated, fmt.Errorf("turn %d: unknown skill %q", a.Turn, a.Skill)
		}
		if st.cooldowns[i] > 0 {
			return false, st.turn, st.defeated, fmt.Errorf("turn %d: skill %q still on cooldown", a.Turn, a.Skill)
		}
		if setup.Skills[i].Cost > st.resources {
			return false, st.turn, st.defeated, fmt.Errorf("turn %d: skill %q costs %d, have %d", a.Turn, a.Skill, setup.Skills[i].Cost, st.resources)
		}
		if a.Target < 0 || a.Target >= len(st.hps) {
			return false, st.turn, st.defeated, fmt.Errorf("turn %d: no such target %d", a.Turn, a.Target)
		}
		if st.hps[a.Target] <= 0 {
			return false, st.turn, st.defeated, fmt.Errorf("turn %d: target %d already defeated", a.Turn, a.Target)
		}

		st = tickMulti(st)
		st.hps[a.Target] -= setup.Skills[i].Damage
		if st.hps[a.Target] <= 0 {
			st.hps[a.Target] = 0
			st.defeated = append(st.defeated, a.Target)
		}
		st.resources -= setup.Skills[i].Cost
		st.cooldowns[i] = setup.Skills[i].Cooldown
	}

	return st.victory(), st.turn, st.defeated, nil
}

func anyUsableMulti(setup MultiSetup, st multiState) bool {
	for i, sk := range setup.Skills {
		if st.cooldowns[i] == 0 && sk.Cost <= st.resources {
			return true
		}
	}
	return false
}
