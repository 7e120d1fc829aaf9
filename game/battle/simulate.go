package battle

import "fmt"

// Simulate replays an action sequence against a setup, enforcing the
// same cooldown, cost, and counter-damage rules the strategist searches
// under. It reports whether the sequence wins and in how many turns, or
// an error describing the first illegal action.
func Simulate(setup Setup, actions []Action) (victory bool, turns int, err error) {
	if err := setup.Validate(); err != nil {
		return false, 0, err
	}

	byName := make(map[string]int, len(setup.Skills))
	for i, sk := range setup.Skills {
		byName[sk.Name] = i
	}

	st := state{
		bossHP:    setup.BossHP,
		playerHP:  setup.PlayerHP,
		resources: setup.Resources,
		cooldowns: make([]int, len(setup.Skills)),
	}

	for _, a := range actions {
		if st.bossHP <= 0 {
			return false, st.turn, fmt.Errorf("turn %d: action after victory", a.Turn)
		}
		if st.playerHP <= 0 {
			return false, st.turn, fmt.Errorf("turn %d: action after defeat", a.Turn)
		}

		if a.Skill == PassAction {
			if usable := anyUsable(setup, st); usable {
				return false, st.turn, fmt.Errorf("turn %d: pass while a skill is usable", a.Turn)
			}
			st = tick(st)
			st.playerHP -= setup.CounterDamage
			continue
		}

		i, ok := byName[a.Skill]
		if !ok {
			return false, st.turn, fmt.Errorf("turn %d: unknown skill %q", a.Turn, a.Skill)
		}
		if st.cooldowns[i] > 0 {
			return false, st.turn, fmt.Errorf("turn %d: skill %q still on cooldown", a.Turn, a.Skill)
		}
		if setup.Skills[i].Cost > st.resources {
			return false, st.turn, fmt.Errorf("turn %d: skill %q costs %d, have %d", a.Turn, a.Skill, setup.Skills[i].Cost, st.resources)
		}

		st = tick(st)
		st.bossHP -= setup.Skills[i].Damage
		if st.bossHP < 0 {
			st.bossHP = 0
		}
		st.resources -= setup.Skills[i].Cost
		st.cooldowns[i] = setup.Skills[i].Cooldown
		if st.bossHP > 0 {
			st.playerHP -= setup.CounterDamage
		}
	}

	return st.bossHP <= 0 && st.playerHP > 0, st.turn, nil
}

func anyUsable(setup Setup, st state) bool {
	for i, sk := range setup.Skills {
		if st.cooldowns[i] == 0 && sk.Cost <= st.resources {
			return true
		}
	}
	return false
}
