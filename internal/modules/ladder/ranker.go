package ladder

import (
	"math"
	"sort"
)

// numFactors is the length of the per-ladder factor vector.
const numFactors = 6

// rangeEpsilon is the factor range below which a batch is considered tied on
// that factor and every candidate receives the neutral normalized value.
const rangeEpsilon = 1e-10

// factorWeights is the fixed contribution of each factor to the composite
// score. Kept as a single named table so tuning never touches the scoring
// math. Order: EV annualized, vol edge, risk/return, theta efficiency,
// Kelly, diversification.
var factorWeights = [numFactors]float64{0.30, 0.20, 0.20, 0.15, 0.10, 0.05}

// factorLabels are the human-readable names reported as a ladder's dominant
// score driver.
var factorLabels = [numFactors]string{
	"Expected Value",
	"Volatility Edge",
	"Risk/Return",
	"Theta",
	"Kelly",
	"Diversification",
}

// rankCandidates normalizes each factor across the whole batch (min-max,
// relative to the batch rather than absolute) and assigns every candidate a
// composite score in [0,10] plus its dominant-factor label. Candidates are
// returned sorted by descending score; ties keep input order (stable sort).
// An empty batch yields an empty result.
func rankCandidates(candidates []candidate) []candidate {
	if len(candidates) == 0 {
		return nil
	}

	var mins, maxs rawFactors
	for f := 0; f < numFactors; f++ {
		mins[f] = math.Inf(1)
		maxs[f] = math.Inf(-1)
	}
	for _, c := range candidates {
		for f, v := range c.factors {
			mins[f] = math.Min(mins[f], v)
			maxs[f] = math.Max(maxs[f], v)
		}
	}

	for i := range candidates {
		c := &candidates[i]

		total := 0.0
		topTerm := math.Inf(-1)
		topFactor := 0
		for f, v := range c.factors {
			normalized := 0.5
			if span := maxs[f] - mins[f]; span > rangeEpsilon {
				normalized = (v - mins[f]) / span
			}

			term := factorWeights[f] * normalized
			total += term
			if term > topTerm {
				topTerm = term
				topFactor = f
			}
		}

		c.scored.Score = math.Min(10, math.Max(0, 10*total))
		c.scored.TopFactor = factorLabels[topFactor]
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].scored.Score > candidates[j].scored.Score
	})

	return candidates
}
