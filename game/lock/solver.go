// Package lock searches a bounded numeric code space against clue
// predicates and a one-way digest oracle. Candidates are assembled digit
// by digit; clues that can be decided on a prefix reject branches before
// the code is complete, and only fully surviving candidates reach the
// oracle.
package lock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/mazequest/engine/game/search"
)

// CodeLength is the number of digits in a lock code.
const CodeLength = 3

// ErrNoSolution reports that the whole candidate space was exhausted
// without a digest match. It signals a malformed puzzle (clues
// inconsistent with the stored digest), not a normal outcome.
var ErrNoSolution = errors.New("no candidate matches clues and digest")

// ErrUnknownStrategy reports a strategy name outside the defined set.
var ErrUnknownStrategy = errors.New("unknown enumeration strategy")

// Candidate is a complete code.
type Candidate [CodeLength]int

// String renders the candidate as its decimal string, the form digested
// by the oracle.
func (c Candidate) String() string {
	return fmt.Sprintf("%d%d%d", c[0], c[1], c[2])
}

// DigitRange bounds one code position, inclusive.
type DigitRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultRanges is the full 0–9 space for every position.
func DefaultRanges() [CodeLength]DigitRange {
	var r [CodeLength]DigitRange
	for i := range r {
		r[i] = DigitRange{Min: 0, Max: 9}
	}
	return r
}

// Strategy selects the candidate-enumeration order.
type Strategy string

const (
	// StrategySequential enumerates digits in ascending order.
	StrategySequential Strategy = "sequential"
	// StrategyRandomized enumerates a seeded uniform permutation of each
	// position's digits, useful for demonstrating average-case pruning.
	StrategyRandomized Strategy = "randomized"
	// StrategyHeuristic is sequential enumeration with clues reordered
	// most-selective-first, so partial evaluation rejects branches as
	// early as possible.
	StrategyHeuristic Strategy = "heuristic"
)

// Puzzle is the input assembled by the puzzle-definition collaborator.
type Puzzle struct {
	Digest string                 `json:"digest"`
	Clues  []Clue                 `json:"clues"`
	Ranges [CodeLength]DigitRange `json:"ranges"`
}

// effectiveRanges substitutes the full digit space when the puzzle left
// its ranges at the zero value, the common case for packs loaded from
// JSON that only specify a digest and clues.
func (p *Puzzle) effectiveRanges() [CodeLength]DigitRange {
	var zero [CodeLength]DigitRange
	if p.Ranges == zero {
		return DefaultRanges()
	}
	return p.Ranges
}

// Validate checks the digest, every clue, and every range without
// running a solve.
func (p *Puzzle) Validate() error {
	if _, err := NewOracle(p.Digest); err != nil {
		return err
	}
	for _, c := range p.Clues {
		if err := c.Validate(CodeLength); err != nil {
			return err
		}
	}
	for i, r := range p.effectiveRanges() {
		if r.Min > r.Max || r.Min < 0 || r.Max > 9 {
			return fmt.Errorf("range %d–%d at position %d", r.Min, r.Max, i)
		}
	}
	return nil
}

// Result is the immutable artifact of a successful solve.
type Result struct {
	Candidate   Candidate `json:"candidate"`
	Code        string    `json:"code"`
	Attempts    int       `json:"attempts"`
	OracleCalls int       `json:"oracle_calls"`
}

// Solver runs one search per call; it owns no state across solves apart
// from its configured strategy and seed.
type Solver struct {
	strategy Strategy
	seed     int64
}

// NewSolver creates a solver with the given enumeration strategy; the
// empty strategy means sequential. The seed only affects
// StrategyRandomized; the same seed reproduces the same enumeration
// order.
func NewSolver(strategy Strategy, seed int64) *Solver {
	if strategy == "" {
		strategy = StrategySequential
	}
	return &Solver{strategy: strategy, seed: seed}
}

// Solve searches the candidate space for the unique code satisfying all
// clues and matching the oracle. The context is checked on every digit
// assignment.
func (s *Solver) Solve(ctx context.Context, p Puzzle, oracle Oracle) (*Result, error) {
	switch s.strategy {
	case StrategySequential, StrategyRandomized, StrategyHeuristic:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, s.strategy)
	}
	for _, c := range p.Clues {
		if err := c.Validate(CodeLength); err != nil {
			return nil, fmt.Errorf("invalid puzzle: %w", err)
		}
	}
	ranges := p.effectiveRanges()
	for i, r := range ranges {
		if r.Min > r.Max || r.Min < 0 || r.Max > 9 {
			return nil, fmt.Errorf("invalid puzzle: range %d–%d at position %d", r.Min, r.Max, i)
		}
	}

	clues := p.Clues
	if s.strategy == StrategyHeuristic {
		clues = append([]Clue(nil), p.Clues...)
		sort.SliceStable(clues, func(i, j int) bool {
			return clues[i].selectivity() < clues[j].selectivity()
		})
	}

	run := &solveRun{
		ctx:    ctx,
		clues:  clues,
		oracle: oracle,
		orders: s.digitOrders(ranges),
	}

	found, err := run.assign(make([]int, 0, CodeLength))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w after %d attempts", ErrNoSolution, run.attempts)
	}
	return &Result{
		Candidate:   run.solution,
		Code:        run.solution.String(),
		Attempts:    run.attempts,
		OracleCalls: run.oracleCalls,
	}, nil
}

// digitOrders precomputes the enumeration order for each position.
func (s *Solver) digitOrders(ranges [CodeLength]DigitRange) [CodeLength][]int {
	var orders [CodeLength][]int
	for i, r := range ranges {
		digits := make([]int, 0, r.Max-r.Min+1)
		for d := r.Min; d <= r.Max; d++ {
			digits = append(digits, d)
		}
		orders[i] = digits
	}

	if s.strategy == StrategyRandomized {
		rng := rand.New(rand.NewSource(s.seed))
		for i := range orders {
			rng.Shuffle(len(orders[i]), func(a, b int) {
				orders[i][a], orders[i][b] = orders[i][b], orders[i][a]
			})
		}
	}
	return orders
}

type solveRun struct {
	ctx         context.Context
	clues       []Clue
	oracle      Oracle
	orders      [CodeLength][]int
	attempts    int
	oracleCalls int
	solution    Candidate
}

// assign extends the prefix by one digit, pruning as soon as any clue
// decidable on the prefix fails.
func (r *solveRun) assign(prefix []int) (bool, error) {
	if err := search.Checkpoint(r.ctx); err != nil {
		return false, err
	}

	if len(prefix) == CodeLength {
		r.attempts++
		var c Candidate
		copy(c[:], prefix)
		r.oracleCalls++
		if r.oracle.Matches(c) {
			r.solution = c
			return true, nil
		}
		return false, nil
	}

	pos := len(prefix)
	for _, d := range r.orders[pos] {
		next := append(prefix, d)
		if !r.cluesAdmit(next) {
			r.attempts++
			continue
		}
		found, err := r.assign(next)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

// cluesAdmit reports whether every clue decidable on the prefix holds.
func (r *solveRun) cluesAdmit(prefix []int) bool {
	for _, c := range r.clues {
		if ok, decided := c.Evaluate(prefix); decided && !ok {
			return false
		}
	}
	return true
}
