package lock

import "fmt"

// ClueKind identifies one of the closed set of clue predicates. Clues
// vary by kind but share the same evaluation contract, so they are
// represented as a tagged variant rather than open-ended dispatch.
type ClueKind string

const (
	ClueDigitOdd       ClueKind = "digit_odd"       // digit at Pos is odd
	ClueDigitEven      ClueKind = "digit_even"      // digit at Pos is even
	ClueDigitPrime     ClueKind = "digit_prime"     // digit at Pos is prime
	ClueDigitComposite ClueKind = "digit_composite" // digit at Pos is composite (>1, not prime)
	ClueDigitNonZero   ClueKind = "digit_nonzero"   // digit at Pos is not 0
	ClueGreaterThan    ClueKind = "greater_than"    // digit at Pos > digit at Other
	ClueLessThan       ClueKind = "less_than"       // digit at Pos < digit at Other
	ClueAllDistinct    ClueKind = "all_distinct"    // no two digits are equal
	ClueSumEven        ClueKind = "sum_even"        // digit sum is even
	ClueSumOdd         ClueKind = "sum_odd"         // digit sum is odd
	ClueSumGreater     ClueKind = "sum_greater"     // digit sum > N
	ClueSumAtMost      ClueKind = "sum_at_most"     // digit sum <= N
)

// Clue is one predicate over a candidate code. Pos and Other index digit
// positions for the positional kinds; N parameterizes the sum kinds.
type Clue struct {
	Kind  ClueKind `json:"kind"`
	Pos   int      `json:"pos,omitempty"`
	Other int      `json:"other,omitempty"`
	N     int      `json:"n,omitempty"`
}

// Validate checks that the clue's parameters fit a code of the given
// number of digits.
func (c Clue) Validate(digits int) error {
	switch c.Kind {
	case ClueDigitOdd, ClueDigitEven, ClueDigitPrime, ClueDigitComposite, ClueDigitNonZero:
		if c.Pos < 0 || c.Pos >= digits {
			return fmt.Errorf("clue %s: position %d out of range", c.Kind, c.Pos)
		}
	case ClueGreaterThan, ClueLessThan:
		if c.Pos < 0 || c.Pos >= digits || c.Other < 0 || c.Other >= digits {
			return fmt.Errorf("clue %s: positions %d,%d out of range", c.Kind, c.Pos, c.Other)
		}
		if c.Pos == c.Other {
			return fmt.Errorf("clue %s: positions must differ", c.Kind)
		}
	case ClueAllDistinct, ClueSumEven, ClueSumOdd, ClueSumGreater, ClueSumAtMost:
		// No positional parameters.
	default:
		return fmt.Errorf("unknown clue kind %q", c.Kind)
	}
	return nil
}

// Evaluate applies the clue to a digit prefix. decided is false when the
// prefix does not yet carry enough digits to settle the predicate; in
// that case ok must be ignored and the candidate cannot be rejected.
func (c Clue) Evaluate(prefix []int) (ok, decided bool) {
	switch c.Kind {
	case ClueDigitOdd:
		if c.Pos >= len(prefix) {
			return false, false
		}
		return prefix[c.Pos]%2 == 1, true
	case ClueDigitEven:
		if c.Pos >= len(prefix) {
			return false, false
		}
		return prefix[c.Pos]%2 == 0, true
	case ClueDigitPrime:
		if c.Pos >= len(prefix) {
			return false, false
		}
		return isPrime(prefix[c.Pos]), true
	case ClueDigitComposite:
		if c.Pos >= len(prefix) {
			return false, false
		}
		d := prefix[c.Pos]
		return d > 1 && !isPrime(d), true
	case ClueDigitNonZero:
		if c.Pos >= len(prefix) {
			return false, false
		}
		return prefix[c.Pos] != 0, true
	case ClueGreaterThan:
		if c.Pos >= len(prefix) || c.Other >= len(prefix) {
			return false, false
		}
		return prefix[c.Pos] > prefix[c.Other], true
	case ClueLessThan:
		if c.Pos >= len(prefix) || c.Other >= len(prefix) {
			return false, false
		}
		return prefix[c.Pos] < prefix[c.Other], true
	case ClueAllDistinct:
		// A duplicate in any prefix settles the clue early.
		for i := 0; i < len(prefix); i++ {
			for j := i + 1; j < len(prefix); j++ {
				if prefix[i] == prefix[j] {
					return false, true
				}
			}
		}
		return true, len(prefix) == CodeLength
	case ClueSumEven:
		if len(prefix) < CodeLength {
			return false, false
		}
		return sum(prefix)%2 == 0, true
	case ClueSumOdd:
		if len(prefix) < CodeLength {
			return false, false
		}
		return sum(prefix)%2 == 1, true
	case ClueSumGreater:
		if len(prefix) < CodeLength {
			return false, false
		}
		return sum(prefix) > c.N, true
	case ClueSumAtMost:
		if len(prefix) < CodeLength {
			return false, false
		}
		return sum(prefix) <= c.N, true
	}
	return false, false
}

// selectivity estimates the fraction of the candidate space a clue
// admits. The heuristic strategy evaluates the most selective clues
// first, so a failing branch is pruned as early as possible.
func (c Clue) selectivity() float64 {
	switch c.Kind {
	case ClueDigitPrime:
		return 0.4 // 2,3,5,7 of 0..9
	case ClueDigitComposite:
		return 0.4 // 4,6,8,9 of 0..9
	case ClueDigitOdd, ClueDigitEven:
		return 0.5
	case ClueGreaterThan, ClueLessThan:
		return 0.45
	case ClueSumEven, ClueSumOdd:
		return 0.5
	case ClueSumGreater, ClueSumAtMost:
		return 0.5
	case ClueAllDistinct:
		return 0.72 // 10*9*8 / 10^3
	case ClueDigitNonZero:
		return 0.9
	}
	return 1.0
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func sum(digits []int) int {
	total := 0
	for _, d := range digits {
		total += d
	}
	return total
}
