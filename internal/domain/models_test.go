package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateLegKey(t *testing.T) {
	leg := CandidateLeg{Strike: 54000, Expiry: "27MAR26"}
	assert.Equal(t, "54000|27MAR26", leg.Key())
}

func TestCandidateLegKey_FractionalStrikes(t *testing.T) {
	// Low-priced underlyings list fractional strikes; legs closer than 0.5
	// apart must not share a key.
	a := CandidateLeg{Strike: 1.25, Expiry: "27MAR26"}
	b := CandidateLeg{Strike: 1.5, Expiry: "27MAR26"}

	assert.Equal(t, "1.25|27MAR26", a.Key())
	assert.Equal(t, "1.5|27MAR26", b.Key())
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestLadderGroupKey_OrderIndependent(t *testing.T) {
	a := CandidateLeg{Strike: 54000, Expiry: "27MAR26"}
	b := CandidateLeg{Strike: 52000, Expiry: "27MAR26"}

	assert.Equal(t, Ladder{a, b}.GroupKey(), Ladder{b, a}.GroupKey())
	assert.NotEqual(t, Ladder{a, a}.GroupKey(), Ladder{a, b}.GroupKey())
}
