package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/ladder"
)

// CandidateSource supplies pre-screened candidate legs and the market
// volatility index. Implemented by the Deribit client.
type CandidateSource interface {
	BuildCandidates(currency string, maxPEx float64) ([]domain.CandidateLeg, error)
	GetVolatilityIndex(currency string) *float64
}

// LadderHistory records published results. Implemented by the history
// repository; nil disables persistence.
type LadderHistory interface {
	Save(currency string, l *domain.ScoredLadder) (string, error)
	Prune(keep int) error
}

// RefreshLaddersConfig holds the optimization parameters for the refresh loop.
type RefreshLaddersConfig struct {
	Currency        string
	MaxProbExercise float64
	NumLegs         int // 0 sweeps 1..5 automatically
	AllowRepetition bool
	HistoryKeep     int
}

// RefreshLaddersJob pulls fresh candidates from the data collaborator, runs
// the optimizer, and publishes the result. A failed fetch returns an error
// and leaves the previously published result in place (last good wins).
type RefreshLaddersJob struct {
	source  CandidateSource
	engine  *ladder.Service
	store   *ladder.Store
	history LadderHistory
	cfg     RefreshLaddersConfig
	log     zerolog.Logger
}

// NewRefreshLaddersJob creates the refresh job. history may be nil.
func NewRefreshLaddersJob(
	source CandidateSource,
	engine *ladder.Service,
	store *ladder.Store,
	history LadderHistory,
	cfg RefreshLaddersConfig,
	log zerolog.Logger,
) *RefreshLaddersJob {
	return &RefreshLaddersJob{
		source:  source,
		engine:  engine,
		store:   store,
		history: history,
		cfg:     cfg,
		log:     log.With().Str("job", "refresh_ladders").Logger(),
	}
}

// Run executes one refresh cycle.
func (j *RefreshLaddersJob) Run() error {
	legs, err := j.source.BuildCandidates(j.cfg.Currency, j.cfg.MaxProbExercise)
	if err != nil {
		return fmt.Errorf("failed to fetch candidates: %w", err)
	}

	volIndex := j.source.GetVolatilityIndex(j.cfg.Currency)

	var best *domain.ScoredLadder
	if j.cfg.NumLegs == 0 {
		best = j.engine.BuildAutoLadder(legs, volIndex, j.cfg.AllowRepetition)
	} else {
		best = j.engine.BuildOptimalLadder(legs, volIndex, j.cfg.NumLegs, j.cfg.AllowRepetition)
	}

	j.store.Publish(&ladder.Result{
		Ladder:     best,
		VolIndex:   volIndex,
		Currency:   j.cfg.Currency,
		ComputedAt: time.Now().UTC(),
	})

	if best == nil {
		j.log.Info().
			Int("candidates", len(legs)).
			Msg("No ladder available for current constraints")
		return nil
	}

	if j.history != nil {
		if _, err := j.history.Save(j.cfg.Currency, best); err != nil {
			j.log.Error().Err(err).Msg("Failed to record ladder history")
		} else if err := j.history.Prune(j.cfg.HistoryKeep); err != nil {
			j.log.Error().Err(err).Msg("Failed to prune ladder history")
		}
	}

	j.log.Info().
		Int("candidates", len(legs)).
		Int("num_legs", len(best.Legs)).
		Float64("score", best.Score).
		Float64("ev_usd", best.EVUSD).
		Str("top_factor", best.TopFactor).
		Msg("Ladder published")

	return nil
}
