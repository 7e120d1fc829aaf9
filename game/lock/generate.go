package lock

import "math/rand"

// GeneratePuzzle builds a random 3-digit code with all-distinct digits
// (first digit nonzero) and a clue set consistent with it, the same
// fixture shape the puzzle-definition collaborator produces. The
// returned puzzle stores only the digest; the code is returned
// separately for test assertions.
func GeneratePuzzle(rng *rand.Rand) (Puzzle, Candidate) {
	var code Candidate
	code[0] = 1 + rng.Intn(9)
	for {
		code[1] = rng.Intn(10)
		if code[1] != code[0] {
			break
		}
	}
	for {
		code[2] = rng.Intn(10)
		if code[2] != code[0] && code[2] != code[1] {
			break
		}
	}

	clues := []Clue{
		{Kind: ClueAllDistinct},
		{Kind: ClueDigitNonZero, Pos: 0},
	}

	if isPrime(code[0]) {
		clues = append(clues, Clue{Kind: ClueDigitPrime, Pos: 0})
	} else if code[0] > 1 {
		clues = append(clues, Clue{Kind: ClueDigitComposite, Pos: 0})
	}

	if code[1]%2 == 0 {
		clues = append(clues, Clue{Kind: ClueDigitEven, Pos: 1})
	} else {
		clues = append(clues, Clue{Kind: ClueDigitOdd, Pos: 1})
	}

	if code[0] > code[1] {
		clues = append(clues, Clue{Kind: ClueGreaterThan, Pos: 0, Other: 1})
	} else {
		clues = append(clues, Clue{Kind: ClueLessThan, Pos: 0, Other: 1})
	}
	if code[2] > code[1] {
		clues = append(clues, Clue{Kind: ClueGreaterThan, Pos: 2, Other: 1})
	} else {
		clues = append(clues, Clue{Kind: ClueLessThan, Pos: 2, Other: 1})
	}

	total := code[0] + code[1] + code[2]
	if total%2 == 0 {
		clues = append(clues, Clue{Kind: ClueSumEven})
	} else {
		clues = append(clues, Clue{Kind: ClueSumOdd})
	}
	if total > 15 {
		clues = append(clues, Clue{Kind: ClueSumGreater, N: 15})
	} else {
		clues = append(clues, Clue{Kind: ClueSumAtMost, N: 15})
	}

	return Puzzle{
		Digest: Digest(code),
		Clues:  clues,
		Ranges: DefaultRanges(),
	}, code
}
