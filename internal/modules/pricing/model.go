// Package pricing provides stateless option-analytics formulas used by the
// ladder scorer: exercise probabilities, Greeks, conditional tail loss and
// collateralized yield. All functions assume a zero risk-free rate, which is
// appropriate for crypto options settled in the underlying.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
)

// tailEpsilon is the tail probability below which conditional losses are
// treated as zero to avoid dividing meaningless quantities.
const tailEpsilon = 1e-10

var stdNormal = distuv.UnitNormal

// NormalCDF computes the standard normal cumulative distribution function using
// the Abramowitz & Stegun polynomial approximation (26.2.17), absolute error
// below ~1.5e-7. Satisfies NormalCDF(0) = 0.5 and the reflection identity
// NormalCDF(-x) = 1 - NormalCDF(x) within that error bound.
func NormalCDF(x float64) float64 {
	if x < 0 {
		return 1 - NormalCDF(-x)
	}

	k := 1.0 / (1.0 + 0.2316419*x)
	poly := k * (0.319381530 + k*(-0.356563782+k*(1.781477937+k*(-1.821255978+k*1.330274429))))
	return 1 - stdNormal.Prob(x)*poly
}

// ProbabilityOfExercise returns the risk-neutral probability that an option
// finishes in the money: N(d2) for calls, N(-d2) for puts. Non-positive time
// to expiry or volatility yields 0 rather than an error.
func ProbabilityOfExercise(spot, strike, timeYears, sigma float64, optType domain.OptionType) float64 {
	if timeYears <= 0 || sigma <= 0 {
		return 0
	}

	d2 := (math.Log(spot/strike) - 0.5*sigma*sigma*timeYears) / (sigma * math.Sqrt(timeYears))
	if optType == domain.OptionTypeCall {
		return NormalCDF(d2)
	}
	return NormalCDF(-d2)
}

// Greeks holds the first-order sensitivities of an option position.
// Vega is per 1-point change in implied volatility, theta per calendar day.
type Greeks struct {
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
}

// ComputeGreeks returns Black-Scholes Greeks at zero rate. Non-positive time
// to expiry or volatility yields the zero struct.
func ComputeGreeks(spot, strike, timeYears, sigma float64, optType domain.OptionType) Greeks {
	if timeYears <= 0 || sigma <= 0 {
		return Greeks{}
	}

	sqrtT := math.Sqrt(timeYears)
	d1 := (math.Log(spot/strike) + 0.5*sigma*sigma*timeYears) / (sigma * sqrtT)
	pdf := stdNormal.Prob(d1)

	delta := NormalCDF(d1)
	if optType == domain.OptionTypePut {
		delta -= 1
	}

	return Greeks{
		Delta: delta,
		Gamma: pdf / (spot * sigma * sqrtT),
		Vega:  spot * pdf * sqrtT / 100,
		Theta: -(spot * sigma * pdf) / (2 * sqrtT) / 365,
	}
}

// ConditionalTailLoss returns the expected magnitude of loss given exercise:
// the undiscounted value of the exercised intrinsic amount in the losing tail.
// For puts this is K·N(-d2) - S·N(-d1); for calls S·N(d1) - K·N(d2). Returns 0
// when the inputs are degenerate or the tail probability is negligible.
func ConditionalTailLoss(spot, strike, timeYears, sigma float64, optType domain.OptionType) float64 {
	if timeYears <= 0 || sigma <= 0 {
		return 0
	}

	sqrtT := math.Sqrt(timeYears)
	d1 := (math.Log(spot/strike) + 0.5*sigma*sigma*timeYears) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	if optType == domain.OptionTypePut {
		if NormalCDF(-d2) < tailEpsilon {
			return 0
		}
		return math.Max(0, strike*NormalCDF(-d2)-spot*NormalCDF(-d1))
	}

	if NormalCDF(d2) < tailEpsilon {
		return 0
	}
	return math.Max(0, spot*NormalCDF(d1)-strike*NormalCDF(d2))
}

// HedgedAnnualYield returns the annualized percentage yield of collecting the
// given premium against capital fully collateralized at the strike. Premium is
// in underlying units; the reference price converts it to quote currency.
func HedgedAnnualYield(premium, refPrice, strike float64, daysToExpiry int) float64 {
	if daysToExpiry <= 0 || strike <= 0 {
		return 0
	}
	return (premium * refPrice / strike) * (365.0 / float64(daysToExpiry)) * 100
}
