// Package domain contains the core domain models for the ladder optimization engine.
// Domain types are pure data: no infrastructure dependencies, no behavior beyond
// simple derived accessors.
package domain

import (
	"sort"
	"strconv"
	"strings"
)

// OptionType identifies the side of an option contract.
type OptionType string

const (
	OptionTypePut  OptionType = "put"
	OptionTypeCall OptionType = "call"
)

// CandidateLeg is a single priced put contract supplied by the data collaborator.
// All admission filtering (e.g. the probability-of-exercise cap) happens before a
// leg reaches the engine; the engine treats the list as pre-screened.
type CandidateLeg struct {
	Strike        float64    `json:"strike"`          // Strike price in quote currency
	Expiry        string     `json:"expiry"`          // Exchange-style expiry label, e.g. "27MAR26"
	DTE           int        `json:"dte"`             // Days to expiry
	MarkIV        float64    `json:"mark_iv"`         // Annualized implied volatility, percent
	Underlying    float64    `json:"underlying"`      // Underlying reference (futures) price
	Premium       float64    `json:"premium"`         // Premium in underlying units (e.g. BTC)
	PremiumUSD    float64    `json:"premium_usd"`     // Premium in quote currency
	ProbExercise  float64    `json:"prob_exercise"`   // Model probability of exercise, [0,1]
	AnnualYield   float64    `json:"annual_yield"`    // Hedged annualized yield, percent
	Moneyness     float64    `json:"moneyness"`       // Percent offset of strike from underlying
	Type          OptionType `json:"type"`            // Only puts participate in the optimizer
}

// Key returns the dedup identity of a leg within one recomputation cycle.
// The strike is formatted exactly so fractional strikes on low-priced
// underlyings never collide.
func (l CandidateLeg) Key() string {
	return strconv.FormatFloat(l.Strike, 'f', -1, 64) + "|" + l.Expiry
}

// Ladder is an ordered group of 1..K legs evaluated together.
type Ladder []CandidateLeg

// GroupKey returns an order-independent identity for a generated leg group,
// used to avoid re-scoring identical groups produced by different pool passes.
func (l Ladder) GroupKey() string {
	keys := make([]string, len(l))
	for i, leg := range l {
		keys[i] = leg.Key()
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// ScoredLadder is a ladder plus its raw aggregate metrics and, after ranking,
// its composite score. Constructed once per candidate group by the scorer; the
// Score and TopFactor fields are filled in by the ranker; immutable afterwards.
type ScoredLadder struct {
	Legs Ladder `json:"legs"`

	Score           float64 `json:"score"`            // Composite score, [0,10]
	EVUSD           float64 `json:"ev_usd"`           // Expected value, quote currency
	EVAnnualized    float64 `json:"ev_annualized"`    // EV scaled to a 365-day horizon
	VolEdge         float64 `json:"vol_edge"`         // Mean IV premium over the volatility index
	ThetaEfficiency float64 `json:"theta_efficiency"` // Aggregate premium decay per day
	RiskReturn      float64 `json:"risk_return"`      // EV over probability-weighted tail risk
	Kelly           float64 `json:"kelly"`            // Heuristic Kelly sizing fraction
	Diversification float64 `json:"diversification"`  // Strike spread relative to underlying
	ProbAllOTM      float64 `json:"prob_all_otm"`     // 1 - max leg P(ex), conservative proxy
	TotalPremiumUSD float64 `json:"total_premium_usd"`
	TotalRiskUSD    float64 `json:"total_risk_usd"`
	AvgAnnualYield  float64 `json:"avg_annual_yield"`
	TopFactor       string  `json:"top_factor"` // Factor contributing most to the score
}

// HighlightKeys returns the strike|expiry keys of the ladder's legs, consumed by
// display layers to highlight the winning contracts in an option chain.
func (s *ScoredLadder) HighlightKeys() []string {
	keys := make([]string, len(s.Legs))
	for i, leg := range s.Legs {
		keys[i] = leg.Key()
	}
	return keys
}
