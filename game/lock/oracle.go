package lock

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Oracle is the one-way verifier for a candidate code. Implementations
// answer yes/no only; the solver never inspects the target beyond this
// call.
type Oracle interface {
	Matches(c Candidate) bool
}

type sha256Oracle struct {
	target [sha256.Size]byte
}

// NewOracle builds an oracle from a hex-encoded SHA-256 digest of the
// target code's decimal string.
func NewOracle(hexDigest string) (Oracle, error) {
	raw, err := hex.DecodeString(hexDigest)
	if err != nil {
		return nil, fmt.Errorf("decode digest: %w", err)
	}
	if len(raw) != sha256.Size {
		return nil, fmt.Errorf("digest is %d bytes, want %d", len(raw), sha256.Size)
	}
	o := &sha256Oracle{}
	copy(o.target[:], raw)
	return o, nil
}

// OracleFor builds an oracle that accepts exactly the given candidate.
// Fixture builders use it so test puzzles never store the code itself.
func OracleFor(c Candidate) Oracle {
	return &sha256Oracle{target: sha256.Sum256([]byte(c.String()))}
}

// Digest returns the hex SHA-256 digest of a candidate, the form stored
// in puzzle fixtures.
func Digest(c Candidate) string {
	d := sha256.Sum256([]byte(c.String()))
	return hex.EncodeToString(d[:])
}

func (o *sha256Oracle) Matches(c Candidate) bool {
	d := sha256.Sum256([]byte(c.String()))
	return subtle.ConstantTimeCompare(d[:], o.target[:]) == 1
}
