package lock

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/mazequest/engine/game/search"
)

// fixture713 is the canonical test puzzle: digest built from "713" with
// clues all true of it (digit 0 odd, digit 2 prime, digit sum odd).
func fixture713() (Puzzle, Candidate) {
	code := Candidate{7, 1, 3}
	return Puzzle{
		Digest: Digest(code),
		Clues: []Clue{
			{Kind: ClueDigitOdd, Pos: 0},
			{Kind: ClueDigitPrime, Pos: 2},
			{Kind: ClueSumOdd},
		},
		Ranges: DefaultRanges(),
	}, code
}

func TestAllStrategiesAgree(t *testing.T) {
	p, code := fixture713()
	oracle, err := NewOracle(p.Digest)
	if err != nil {
		t.Fatalf("NewOracle failed: %v", err)
	}

	for _, strategy := range []Strategy{StrategySequential, StrategyRandomized, StrategyHeuristic} {
		t.Run(string(strategy), func(t *testing.T) {
			res, err := NewSolver(strategy, 42).Solve(context.Background(), p, oracle)
			if err != nil {
				t.Fatalf("Solve failed: %v", err)
			}
			if res.Candidate != code {
				t.Errorf("candidate = %s, want %s", res.Code, code)
			}
			if res.Code != "713" {
				t.Errorf("code = %q, want %q", res.Code, "713")
			}
		})
	}
}

func TestContradictoryCluesNoSolution(t *testing.T) {
	p := Puzzle{
		Digest: Digest(Candidate{1, 2, 3}),
		Clues: []Clue{
			{Kind: ClueDigitOdd, Pos: 0},
			{Kind: ClueDigitEven, Pos: 0},
		},
		Ranges: DefaultRanges(),
	}
	oracle, _ := NewOracle(p.Digest)

	for _, strategy := range []Strategy{StrategySequential, StrategyRandomized, StrategyHeuristic} {
		_, err := NewSolver(strategy, 7).Solve(context.Background(), p, oracle)
		if !errors.Is(err, ErrNoSolution) {
			t.Errorf("%s: expected ErrNoSolution, got %v", strategy, err)
		}
	}
}

func TestCluesConsistentButDigestForeign(t *testing.T) {
	// Clues admit candidates, but the digest belongs to a code the clues
	// reject: a malformed fixture must exhaust the space.
	p := Puzzle{
		Digest: Digest(Candidate{2, 2, 2}),
		Clues:  []Clue{{Kind: ClueDigitOdd, Pos: 0}},
		Ranges: DefaultRanges(),
	}
	oracle, _ := NewOracle(p.Digest)

	_, err := NewSolver(StrategySequential, 0).Solve(context.Background(), p, oracle)
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("expected ErrNoSolution, got %v", err)
	}
}

func TestPartialPruningSkipsOracle(t *testing.T) {
	p, _ := fixture713()
	oracle, _ := NewOracle(p.Digest)

	res, err := NewSolver(StrategySequential, 0).Solve(context.Background(), p, oracle)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	// Digit 0 odd and digit 2 prime cut the space well below the full
	// thousand candidates; the oracle must never see more than the
	// survivors.
	if res.OracleCalls > 200 {
		t.Errorf("oracle calls = %d, pruning is not happening", res.OracleCalls)
	}
}

func TestRandomizedDeterministicPerSeed(t *testing.T) {
	p, _ := fixture713()
	oracle, _ := NewOracle(p.Digest)

	a, err := NewSolver(StrategyRandomized, 99).Solve(context.Background(), p, oracle)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	b, err := NewSolver(StrategyRandomized, 99).Solve(context.Background(), p, oracle)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if a.Attempts != b.Attempts || a.Candidate != b.Candidate {
		t.Error("same seed must reproduce the same search")
	}
}

func TestPerPositionRanges(t *testing.T) {
	code := Candidate{5, 0, 9}
	p := Puzzle{
		Digest: Digest(code),
		Ranges: [CodeLength]DigitRange{{Min: 5, Max: 5}, {Min: 0, Max: 3}, {Min: 8, Max: 9}},
	}
	oracle, _ := NewOracle(p.Digest)

	res, err := NewSolver(StrategySequential, 0).Solve(context.Background(), p, oracle)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if res.Candidate != code {
		t.Errorf("candidate = %s, want %s", res.Code, code)
	}
	if res.OracleCalls > 8 {
		t.Errorf("oracle calls = %d, want at most the 8-candidate space", res.OracleCalls)
	}
}

func TestInvalidPuzzleRejected(t *testing.T) {
	oracle := OracleFor(Candidate{1, 2, 3})

	p := Puzzle{Clues: []Clue{{Kind: ClueDigitOdd, Pos: 5}}, Ranges: DefaultRanges()}
	if _, err := NewSolver(StrategySequential, 0).Solve(context.Background(), p, oracle); err == nil {
		t.Error("out-of-range clue position must be rejected")
	}

	p = Puzzle{Ranges: [CodeLength]DigitRange{{Min: 3, Max: 1}, {Min: 0, Max: 9}, {Min: 0, Max: 9}}}
	if _, err := NewSolver(StrategySequential, 0).Solve(context.Background(), p, oracle); err == nil {
		t.Error("inverted digit range must be rejected")
	}
}

func TestUnknownStrategyRejected(t *testing.T) {
	p, _ := fixture713()
	oracle, _ := NewOracle(p.Digest)

	_, err := NewSolver(Strategy("random"), 0).Solve(context.Background(), p, oracle)
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}

	// The zero strategy means sequential, not an error.
	res, err := NewSolver("", 0).Solve(context.Background(), p, oracle)
	if err != nil {
		t.Fatalf("empty strategy should solve sequentially, got %v", err)
	}
	if res.Code != "713" {
		t.Errorf("code = %q, want %q", res.Code, "713")
	}
}

func TestCancellation(t *testing.T) {
	p, _ := fixture713()
	oracle, _ := NewOracle(p.Digest)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSolver(StrategySequential, 0).Solve(ctx, p, oracle)
	if !errors.Is(err, search.ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

func TestGeneratedPuzzlesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		p, code := GeneratePuzzle(rng)
		oracle, err := NewOracle(p.Digest)
		if err != nil {
			t.Fatalf("puzzle %d: NewOracle failed: %v", i, err)
		}
		res, err := NewSolver(StrategyHeuristic, 0).Solve(context.Background(), p, oracle)
		if err != nil {
			t.Fatalf("puzzle %d: Solve failed for code %s: %v", i, code, err)
		}
		if res.Candidate != code {
			t.Errorf("puzzle %d: solved %s, want %s", i, res.Code, code)
		}
	}
}
