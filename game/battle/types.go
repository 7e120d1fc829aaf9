package battle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PassAction is the action name recorded when no skill is usable and the
// player waits out a turn.
const PassAction = "pass"

// DefaultTurnCap bounds searches whose setup does not name its own cap.
const DefaultTurnCap = 30

// ErrUnwinnable reports that the search frontier emptied before any turn
// sequence reached victory. The configuration is not retried.
var ErrUnwinnable = errors.New("battle cannot be won")

// ErrInvalidSetup reports a malformed battle configuration.
var ErrInvalidSetup = errors.New("invalid battle setup")

// Skill is one fixed combat option: the damage it deals, the turns it
// then spends on cooldown, and the resource it costs to use.
type Skill struct {
	Name     string `json:"name"`
	Damage   int    `json:"damage"`
	Cooldown int    `json:"cooldown"`
	Cost     int    `json:"cost"`
}

// Setup is the battle input assembled by the battle-setup collaborator.
// CounterDamage is the deterministic damage the boss deals back each
// turn it survives.
type Setup struct {
	BossHP        int     `json:"boss_hp"`
	PlayerHP      int     `json:"player_hp"`
	Skills        []Skill `json:"skills"`
	Resources     int     `json:"resources"`
	CounterDamage int     `json:"counter_damage"`
	TurnCap       int     `json:"turn_cap,omitempty"`
}

// Validate checks the setup for a searchable battle.
func (s Setup) Validate() error {
	if s.BossHP <= 0 {
		return fmt.Errorf("%w: boss HP must be positive, got %d", ErrInvalidSetup, s.BossHP)
	}
	if s.PlayerHP <= 0 {
		return fmt.Errorf("%w: player HP must be positive, got %d", ErrInvalidSetup, s.PlayerHP)
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
	if s.Resources < 0 || s.CounterDamage < 0 {
		return fmt.Errorf("%w: resources and counter damage must be non-negative", ErrInvalidSetup)
	}
	if s.TurnCap < 0 {
		return fmt.Errorf("%w: turn cap must be non-negative", ErrInvalidSetup)
	}
	return nil
}

// turnCap resolves the effective cap.
func (s Setup) turnCap() int {
	if s.TurnCap > 0 {
		return s.TurnCap
	}
	return DefaultTurnCap
}

// maxDamage returns the highest single-skill damage, the denominator of
// the admissible turns-remaining heuristic.
func (s Setup) maxDamage() int {
	max := 0
	for _, sk := range s.Skills {
		if sk.Damage > max {
			max = sk.Damage
		}
	}
	return max
}

// Action is one entry of the turn plan: the 1-based turn number and the
// skill chosen that turn (or PassAction).
type Action struct {
	Turn  int    `json:"turn"`
	Skill string `json:"skill"`
}

// Stats counts search effort, mirroring what the strategist explored and
// discarded.
type Stats struct {
	NodesExplored int `json:"nodes_explored"`
	NodesPruned   int `json:"nodes_pruned"`
	StatesCached  int `json:"states_cached"`
}

// Plan is the immutable result artifact: the ordered action sequence
// reaching victory in the fewest turns.
type Plan struct {
	Actions []Action `json:"actions"`
	Turns   int      `json:"turns"`
	Stats   Stats    `json:"stats"`
}

// state is one point of the battle space. Cooldowns are indexed like
// Setup.Skills.
type state struct {
	bossHP    int
	playerHP  int
	resources int
	turn      int
	cooldowns []int
}

// key encodes the dominance-pruning identity of a state: everything but
// the turn counter, which is the cost being minimized.
func (st state) key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(st.bossHP))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(st.playerHP))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(st.resources))
	for _, cd := range st.cooldowns {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(cd))
	}
	return b.String()
}
