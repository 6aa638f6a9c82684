// Package ladder implements the ladder optimization engine: scoring fixed-size
// groups of cash-secured put legs on six risk/return factors, normalizing
// across the generated candidate set, and selecting the single best group.
// All entry points are pure and synchronous; combinatorial caps bound each
// invocation well inside one refresh cycle.
package ladder

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/sequences"
)

// MaxLegs is the largest ladder size the optimizer considers.
const MaxLegs = 5

// Pool caps bounding the combinatorial search (see perExpiryCap / topCap).
const (
	topCapWithRepetition    = 8
	topCapWithoutRepetition = 15
)

// Service builds optimal ladders from pre-screened candidate legs.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new ladder optimization service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("component", "ladder_service").Logger(),
	}
}

// BuildOptimalLadder searches same-expiry and cross-expiry leg groups of size
// numLegs and returns the top-ranked one, or nil when the candidate pool
// cannot satisfy the requested size and repetition policy. A nil result is
// the expected "no ladder available" outcome, never an error.
func (s *Service) BuildOptimalLadder(
	legs []domain.CandidateLeg,
	volIndex *float64,
	numLegs int,
	allowRepetition bool,
) *domain.ScoredLadder {
	if numLegs < 1 || numLegs > MaxLegs {
		return nil
	}

	puts := filterPuts(legs)
	if allowRepetition {
		if len(puts) == 0 {
			return nil
		}
	} else if len(puts) < numLegs {
		return nil
	}

	// Dedup by (strike, expiry), keeping the first occurrence. Callers supply
	// legs sorted by descending yield, so first-seen is the most attractive.
	unique := dedupLegs(puts)

	seen := make(map[string]bool)
	var candidates []candidate

	score := func(group []domain.CandidateLeg) {
		key := domain.Ladder(group).GroupKey()
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, scoreLadder(group, volIndex))
	}

	// Same-expiry pools: descending strike, capped per expiry to bound the
	// combinatorial blow-up. Expiries iterate in sorted order so repeated
	// invocations generate candidates in identical order.
	buckets := bucketByExpiry(unique)
	expiries := make([]string, 0, len(buckets))
	for expiry := range buckets {
		expiries = append(expiries, expiry)
	}
	sort.Strings(expiries)

	poolCap := perExpiryCap(numLegs, allowRepetition)
	for _, expiry := range expiries {
		pool := buckets[expiry]
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].Strike > pool[j].Strike })
		if len(pool) > poolCap {
			pool = pool[:poolCap]
		}
		for _, group := range generate(pool, numLegs, allowRepetition) {
			score(group)
		}
	}

	// Cross-expiry pool: the most attractive legs overall by annualized yield.
	topCap := topCapWithoutRepetition
	if allowRepetition {
		topCap = topCapWithRepetition
	}
	top := make([]domain.CandidateLeg, len(unique))
	copy(top, unique)
	sort.SliceStable(top, func(i, j int) bool { return top[i].AnnualYield > top[j].AnnualYield })
	if len(top) > topCap {
		top = top[:topCap]
	}
	for _, group := range generate(top, numLegs, allowRepetition) {
		score(group)
	}

	if len(candidates) == 0 {
		return nil
	}

	ranked := rankCandidates(candidates)
	best := ranked[0].scored

	s.log.Debug().
		Int("num_legs", numLegs).
		Bool("allow_repetition", allowRepetition).
		Int("pool", len(unique)).
		Int("candidates", len(candidates)).
		Float64("score", best.Score).
		Msg("Optimal ladder selected")

	return best
}

// BuildAutoLadder sweeps leg counts 1..MaxLegs and returns the globally
// highest-scoring ladder, or nil when no leg count produces one.
func (s *Service) BuildAutoLadder(
	legs []domain.CandidateLeg,
	volIndex *float64,
	allowRepetition bool,
) *domain.ScoredLadder {
	var best *domain.ScoredLadder
	for numLegs := 1; numLegs <= MaxLegs; numLegs++ {
		result := s.BuildOptimalLadder(legs, volIndex, numLegs, allowRepetition)
		if result == nil {
			continue
		}
		if best == nil || result.Score > best.Score {
			best = result
		}
	}
	return best
}

// perExpiryCap bounds the per-expiry pool size. Repetition grows the search
// space faster (multisets), so it gets the tighter cap.
func perExpiryCap(numLegs int, allowRepetition bool) int {
	if allowRepetition {
		return min(5, numLegs+2)
	}
	return max(8, numLegs+5)
}

func generate(pool []domain.CandidateLeg, numLegs int, allowRepetition bool) [][]domain.CandidateLeg {
	if allowRepetition {
		return sequences.CombinationsWithRepetition(pool, numLegs)
	}
	return sequences.Combinations(pool, numLegs)
}

func filterPuts(legs []domain.CandidateLeg) []domain.CandidateLeg {
	puts := make([]domain.CandidateLeg, 0, len(legs))
	for _, leg := range legs {
		if leg.Type == domain.OptionTypePut {
			puts = append(puts, leg)
		}
	}
	return puts
}

func dedupLegs(legs []domain.CandidateLeg) []domain.CandidateLeg {
	seen := make(map[string]bool, len(legs))
	unique := make([]domain.CandidateLeg, 0, len(legs))
	for _, leg := range legs {
		key := leg.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, leg)
	}
	return unique
}

func bucketByExpiry(legs []domain.CandidateLeg) map[string][]domain.CandidateLeg {
	buckets := make(map[string][]domain.CandidateLeg)
	for _, leg := range legs {
		buckets[leg.Expiry] = append(buckets[leg.Expiry], leg)
	}
	return buckets
}
