// Package history persists published optimization results so operators can
// review how the recommended ladder evolved across refresh cycles. The engine
// itself stays stateless; only the orchestration layer writes here.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/database"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
)

// Record is one persisted optimization outcome.
type Record struct {
	ID              string                `json:"id"`
	CreatedAt       time.Time             `json:"created_at"`
	Currency        string                `json:"currency"`
	NumLegs         int                   `json:"num_legs"`
	Score           float64               `json:"score"`
	EVUSD           float64               `json:"ev_usd"`
	TotalPremiumUSD float64               `json:"total_premium_usd"`
	TopFactor       string                `json:"top_factor"`
	Legs            []domain.CandidateLeg `json:"legs"`
}

// Repository stores published ladders in SQLite. Leg details are encoded as a
// msgpack blob; the queryable aggregates live in their own columns.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates the repository and its schema if missing.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	repo := &Repository{
		db:  db,
		log: log.With().Str("component", "history_repository").Logger(),
	}
	if err := repo.initSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Repository) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS ladder_history (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			currency TEXT NOT NULL,
			num_legs INTEGER NOT NULL,
			score REAL NOT NULL,
			ev_usd REAL NOT NULL,
			total_premium_usd REAL NOT NULL,
			top_factor TEXT NOT NULL,
			legs BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_ladder_history_created_at
			ON ladder_history(created_at DESC);
	`
	if _, err := r.db.Conn().Exec(schema); err != nil {
		return fmt.Errorf("failed to create ladder_history schema: %w", err)
	}
	return nil
}

// Save persists one published ladder and returns the generated record id.
func (r *Repository) Save(currency string, ladder *domain.ScoredLadder) (string, error) {
	legsBlob, err := msgpack.Marshal(ladder.Legs)
	if err != nil {
		return "", fmt.Errorf("failed to encode legs: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.Conn().Exec(`
		INSERT INTO ladder_history
			(id, created_at, currency, num_legs, score, ev_usd, total_premium_usd, top_factor, legs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC(),
		currency,
		len(ladder.Legs),
		ladder.Score,
		ladder.EVUSD,
		ladder.TotalPremiumUSD,
		ladder.TopFactor,
		legsBlob,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert ladder history record: %w", err)
	}

	r.log.Debug().
		Str("id", id).
		Float64("score", ladder.Score).
		Int("num_legs", len(ladder.Legs)).
		Msg("Ladder recorded")

	return id, nil
}

// ListRecent returns the newest records first, at most limit rows.
func (r *Repository) ListRecent(limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.Conn().Query(`
		SELECT id, created_at, currency, num_legs, score, ev_usd, total_premium_usd, top_factor, legs
		FROM ladder_history
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ladder history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var legsBlob []byte
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.Currency, &rec.NumLegs,
			&rec.Score, &rec.EVUSD, &rec.TotalPremiumUSD, &rec.TopFactor, &legsBlob,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ladder history row: %w", err)
		}
		if err := msgpack.Unmarshal(legsBlob, &rec.Legs); err != nil {
			return nil, fmt.Errorf("failed to decode legs for record %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Prune deletes everything beyond the newest keep records.
func (r *Repository) Prune(keep int) error {
	if keep < 0 {
		return nil
	}
	_, err := r.db.Conn().Exec(`
		DELETE FROM ladder_history
		WHERE id NOT IN (
			SELECT id FROM ladder_history ORDER BY created_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune ladder history: %w", err)
	}
	return nil
}
