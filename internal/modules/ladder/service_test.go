package ladder

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
)

// scenarioLegs returns the three-leg reference chain: 30-day puts on a 60000
// underlying, sorted by descending annualized yield as the data collaborator
// supplies them.
func scenarioLegs() []domain.CandidateLeg {
	return []domain.CandidateLeg{
		testLeg(56000, 50, 0.015), // ~19.6% APY
		testLeg(54000, 55, 0.010), // ~13.5% APY
		testLeg(52000, 60, 0.008), // ~11.2% APY
	}
}

func strikes(l *domain.ScoredLadder) []float64 {
	s := make([]float64, len(l.Legs))
	for i, leg := range l.Legs {
		s[i] = leg.Strike
	}
	return s
}

func TestBuildOptimalLadder_TwoLegScenario(t *testing.T) {
	svc := NewService(zerolog.Nop())

	result := svc.BuildOptimalLadder(scenarioLegs(), nil, 2, false)
	require.NotNil(t, result)
	require.Len(t, result.Legs, 2)

	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 10.0)
	assert.NotEmpty(t, result.TopFactor)

	// The 52000/54000 pair wins: the 56000 leg sits closest to the money,
	// so its tail risk erases most of its premium and drags down the
	// expected value of any pair that includes it.
	assert.ElementsMatch(t, []float64{54000, 52000}, strikes(result))

	// It is the batch maximum on EV, vol edge, risk/return and Kelly, and
	// the batch minimum on theta and diversification:
	// 10 · (0.30 + 0.20 + 0.20 + 0.10) = 8.0
	assert.InDelta(t, 8.0, result.Score, 1e-6)
	assert.Equal(t, "Expected Value", result.TopFactor)
}

func TestBuildOptimalLadder_Idempotent(t *testing.T) {
	svc := NewService(zerolog.Nop())

	first := svc.BuildOptimalLadder(scenarioLegs(), nil, 2, false)
	second := svc.BuildOptimalLadder(scenarioLegs(), nil, 2, false)

	require.NotNil(t, first)
	assert.Equal(t, first, second)
}

func TestBuildOptimalLadder_InsufficientLegs(t *testing.T) {
	svc := NewService(zerolog.Nop())
	legs := scenarioLegs()

	assert.Nil(t, svc.BuildOptimalLadder(legs, nil, 4, false))
	assert.Nil(t, svc.BuildOptimalLadder(legs[:1], nil, 2, false))
	assert.Nil(t, svc.BuildOptimalLadder(nil, nil, 1, false))
	assert.Nil(t, svc.BuildOptimalLadder(nil, nil, 1, true))
}

func TestBuildOptimalLadder_InvalidLegCount(t *testing.T) {
	svc := NewService(zerolog.Nop())

	assert.Nil(t, svc.BuildOptimalLadder(scenarioLegs(), nil, 0, false))
	assert.Nil(t, svc.BuildOptimalLadder(scenarioLegs(), nil, 6, false))
}

func TestBuildOptimalLadder_RepetitionFillsFromOneLeg(t *testing.T) {
	svc := NewService(zerolog.Nop())
	legs := scenarioLegs()[:1]

	result := svc.BuildOptimalLadder(legs, nil, 3, true)
	require.NotNil(t, result)
	require.Len(t, result.Legs, 3)

	// Same contract three times: no strike spread
	assert.Equal(t, []float64{56000, 56000, 56000}, strikes(result))
	assert.Equal(t, 0.0, result.Diversification)
}

func TestBuildOptimalLadder_FiltersCalls(t *testing.T) {
	svc := NewService(zerolog.Nop())

	call := testLeg(54000, 55, 0.010)
	call.Type = domain.OptionTypeCall

	// Only the call exists: no puts, no ladder
	assert.Nil(t, svc.BuildOptimalLadder([]domain.CandidateLeg{call}, nil, 1, false))

	// Calls never appear in results
	legs := append(scenarioLegs(), call)
	result := svc.BuildOptimalLadder(legs, nil, 3, false)
	require.NotNil(t, result)
	for _, leg := range result.Legs {
		assert.Equal(t, domain.OptionTypePut, leg.Type)
	}
}

func TestBuildOptimalLadder_DedupKeepsFirstOccurrence(t *testing.T) {
	svc := NewService(zerolog.Nop())

	primary := testLeg(54000, 55, 0.010)
	duplicate := testLeg(54000, 55, 0.002) // Same (strike, expiry), worse premium

	result := svc.BuildOptimalLadder([]domain.CandidateLeg{primary, duplicate}, nil, 1, false)
	require.NotNil(t, result)
	require.Len(t, result.Legs, 1)
	assert.Equal(t, primary.Premium, result.Legs[0].Premium)
}

func TestBuildOptimalLadder_FractionalStrikesStayDistinct(t *testing.T) {
	svc := NewService(zerolog.Nop())

	// Strikes less than 0.5 apart are distinct contracts, not duplicates
	legs := []domain.CandidateLeg{
		testLeg(54000.25, 55, 0.010),
		testLeg(54000.5, 55, 0.010),
	}

	result := svc.BuildOptimalLadder(legs, nil, 2, false)
	require.NotNil(t, result)
	require.Len(t, result.Legs, 2)
	assert.ElementsMatch(t, []float64{54000.25, 54000.5}, strikes(result))
}

func TestBuildOptimalLadder_MixedExpiries(t *testing.T) {
	svc := NewService(zerolog.Nop())

	far := testLeg(50000, 65, 0.020)
	far.Expiry = "24APR26"
	far.DTE = 58

	legs := append(scenarioLegs(), far)
	result := svc.BuildOptimalLadder(legs, nil, 2, false)
	require.NotNil(t, result)
	require.Len(t, result.Legs, 2)

	// The cross-expiry pool admits pairs spanning both expiries, so the
	// search space includes C(4,2) = 6 distinct groups; whichever wins,
	// the result is a valid pair of distinct contracts.
	assert.NotEqual(t, result.Legs[0].Key(), result.Legs[1].Key())
}

func TestBuildAutoLadder_ReturnsGlobalBest(t *testing.T) {
	svc := NewService(zerolog.Nop())
	legs := scenarioLegs()

	auto := svc.BuildAutoLadder(legs, nil, false)
	require.NotNil(t, auto)

	for numLegs := 1; numLegs <= MaxLegs; numLegs++ {
		if fixed := svc.BuildOptimalLadder(legs, nil, numLegs, false); fixed != nil {
			assert.GreaterOrEqual(t, auto.Score, fixed.Score)
		}
	}
}

func TestBuildAutoLadder_NoCandidates(t *testing.T) {
	svc := NewService(zerolog.Nop())
	assert.Nil(t, svc.BuildAutoLadder(nil, nil, false))
}
