package ladder

import (
	"math"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/pricing"
)

// DefaultVolIndex is the fallback market-volatility benchmark used for the
// volatility-edge factor when no live index value is supplied.
const DefaultVolIndex = 57.0

// rawFactors is the per-ladder factor vector consumed by the ranker. Order
// matches the weight table: EV annualized, vol edge, risk/return, theta
// efficiency, Kelly, diversification.
type rawFactors [numFactors]float64

// candidate pairs a scored ladder with its raw factor vector during one
// ranking batch. The vector is not retained after ranking.
type candidate struct {
	scored  *domain.ScoredLadder
	factors rawFactors
}

// scoreLadder computes the raw risk/return metrics for one leg group.
// volIndex is the market volatility benchmark (e.g. DVOL); pass nil to use
// the fallback constant. The composite Score field is left unset; ranking
// fills it in relative to the rest of the batch.
func scoreLadder(legs domain.Ladder, volIndex *float64) candidate {
	n := len(legs)
	if n == 0 {
		return candidate{scored: &domain.ScoredLadder{}}
	}

	dv := DefaultVolIndex
	if volIndex != nil {
		dv = *volIndex
	}

	var (
		totalEV, totalRisk, totalPrem float64
		sumAPY, sumDTE, volEdgeSum    float64
		thetaEff, maxPEx              float64
		minStrike                     = math.Inf(1)
		maxStrike                     = math.Inf(-1)
	)

	for _, leg := range legs {
		sigma := leg.MarkIV / 100
		timeYears := float64(leg.DTE) / 365

		pITM := leg.ProbExercise
		tailLoss := pricing.ConditionalTailLoss(leg.Underlying, leg.Strike, timeYears, sigma, domain.OptionTypePut)

		totalEV += leg.PremiumUSD*(1-pITM) - tailLoss*pITM
		totalRisk += pITM * tailLoss
		totalPrem += leg.PremiumUSD
		sumAPY += leg.AnnualYield
		sumDTE += float64(leg.DTE)
		volEdgeSum += (leg.MarkIV - dv) / math.Max(dv, 1)
		thetaEff += leg.PremiumUSD / float64(leg.DTE)

		maxPEx = math.Max(maxPEx, pITM)
		minStrike = math.Min(minStrike, leg.Strike)
		maxStrike = math.Max(maxStrike, leg.Strike)
	}

	avgDTE := sumDTE / float64(n)
	evAnnual := totalEV * (365 / avgDTE)
	volEdge := volEdgeSum / float64(n)

	riskReturn := 0.0
	if totalRisk > 0 {
		riskReturn = totalEV / totalRisk
	}

	probAllOTM := 1 - maxPEx

	// Kelly sizing from the riskiest leg's exercise odds against the pooled
	// premium. avgLoss is floored to keep near-zero exercise odds from
	// exploding the loss estimate.
	kelly := 0.0
	if totalPrem > 0 {
		avgLoss := totalRisk / math.Max(maxPEx, 0.01)
		kelly = math.Max(0, probAllOTM-maxPEx*avgLoss/totalPrem)
	}

	diversification := (maxStrike - minStrike) / legs[0].Underlying

	return candidate{
		scored: &domain.ScoredLadder{
			Legs:            legs,
			EVUSD:           totalEV,
			EVAnnualized:    evAnnual,
			VolEdge:         volEdge,
			ThetaEfficiency: thetaEff,
			RiskReturn:      riskReturn,
			Kelly:           kelly,
			Diversification: diversification,
			ProbAllOTM:      probAllOTM,
			TotalPremiumUSD: totalPrem,
			TotalRiskUSD:    totalRisk,
			AvgAnnualYield:  sumAPY / float64(n),
		},
		factors: rawFactors{
			evAnnual,
			math.Max(0, volEdge),
			riskReturn,
			thetaEff,
			kelly,
			diversification,
		},
	}
}
