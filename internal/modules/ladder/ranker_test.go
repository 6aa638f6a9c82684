package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
)

func TestRankCandidates_Empty(t *testing.T) {
	assert.Nil(t, rankCandidates(nil))
	assert.Nil(t, rankCandidates([]candidate{}))
}

func TestRankCandidates_ScoresBounded(t *testing.T) {
	candidates := []candidate{
		scoreLadder(domain.Ladder{testLeg(54000, 55, 0.010)}, nil),
		scoreLadder(domain.Ladder{testLeg(52000, 60, 0.008)}, nil),
		scoreLadder(domain.Ladder{testLeg(56000, 50, 0.015)}, nil),
	}

	ranked := rankCandidates(candidates)
	require.Len(t, ranked, 3)

	for _, c := range ranked {
		assert.GreaterOrEqual(t, c.scored.Score, 0.0)
		assert.LessOrEqual(t, c.scored.Score, 10.0)
		assert.NotEmpty(t, c.scored.TopFactor)
	}

	// Descending order
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].scored.Score, ranked[i].scored.Score)
	}
}

func TestRankCandidates_IdenticalBatchIsNeutral(t *testing.T) {
	legs := domain.Ladder{testLeg(54000, 55, 0.010), testLeg(52000, 60, 0.008)}

	candidates := []candidate{
		scoreLadder(legs, nil),
		scoreLadder(legs, nil),
		scoreLadder(legs, nil),
	}

	ranked := rankCandidates(candidates)
	require.Len(t, ranked, 3)

	// Every factor range is zero, so every candidate normalizes to 0.5 on
	// every factor: composite = 10 · 0.5 · Σweights = 5.0
	for _, c := range ranked {
		assert.InDelta(t, 5.0, c.scored.Score, 1e-9)
		assert.Equal(t, "Expected Value", c.scored.TopFactor)
	}
}

func TestRankCandidates_StableTieBreak(t *testing.T) {
	legs := domain.Ladder{testLeg(54000, 55, 0.010)}

	first := scoreLadder(legs, nil)
	second := scoreLadder(legs, nil)

	ranked := rankCandidates([]candidate{first, second})
	require.Len(t, ranked, 2)

	// Equal scores keep input order
	assert.Same(t, first.scored, ranked[0].scored)
	assert.Same(t, second.scored, ranked[1].scored)
}

func TestFactorWeights_SumToOne(t *testing.T) {
	total := 0.0
	for _, w := range factorWeights {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-12)
}
