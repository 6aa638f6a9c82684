package ladder

import (
	"sync"
	"time"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
)

// Result is one published optimization outcome. Ladder is nil when the last
// refresh found no ladder for the configured constraints.
type Result struct {
	Ladder     *domain.ScoredLadder `json:"ladder,omitempty"`
	VolIndex   *float64             `json:"vol_index,omitempty"`
	Currency   string               `json:"currency"`
	ComputedAt time.Time            `json:"computed_at"`
}

// Store holds the latest published result for the HTTP surface. Writes follow
// a last-result-wins contract: a refresh simply replaces whatever is held,
// and readers never block a refresh beyond the swap itself.
type Store struct {
	mu     sync.RWMutex
	latest *Result
}

// NewStore creates an empty result store.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the held result.
func (s *Store) Publish(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = r
}

// Latest returns the most recently published result, or nil before the first
// refresh completes.
func (s *Store) Latest() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
