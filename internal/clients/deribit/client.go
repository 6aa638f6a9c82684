// Package deribit provides the market-data collaborator for the optimizer: it
// pulls the option book and volatility index from Deribit's public API and
// turns them into pre-screened candidate legs. All candidate-admission
// filtering (put-only, positive DTE, the probability-of-exercise cap) happens
// here, before legs ever reach the engine.
package deribit

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/domain"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/pricing"
)

// Deribit options expire at 08:00 UTC on the expiry date.
const expiryHourUTC = 8

// Client for the Deribit public API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	now     func() time.Time
}

// NewClient creates a new Deribit public API client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "deribit").Logger(),
		now:     time.Now,
	}
}

// BookSummary is one instrument row from get_book_summary_by_currency.
type BookSummary struct {
	InstrumentName  string  `json:"instrument_name"`
	MarkPrice       float64 `json:"mark_price"` // In underlying units
	MarkIV          float64 `json:"mark_iv"`    // Annualized, percent
	UnderlyingPrice float64 `json:"underlying_price"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// GetBookSummaries fetches the full option book for a currency.
func (c *Client) GetBookSummaries(currency string) ([]BookSummary, error) {
	url := fmt.Sprintf("%s/api/v2/public/get_book_summary_by_currency?currency=%s&kind=option",
		c.baseURL, currency)

	var summaries []BookSummary
	if err := c.getJSON(url, &summaries); err != nil {
		return nil, fmt.Errorf("failed to fetch book summaries: %w", err)
	}
	return summaries, nil
}

// GetVolatilityIndex fetches the DVOL-style volatility index for a currency.
// Returns nil when the index is unavailable; the engine falls back to its
// internal constant in that case.
func (c *Client) GetVolatilityIndex(currency string) *float64 {
	indexName := strings.ToLower(currency) + "dvol_usdc"
	url := fmt.Sprintf("%s/api/v2/public/get_index_price?index_name=%s", c.baseURL, indexName)

	var result struct {
		IndexPrice float64 `json:"index_price"`
	}
	if err := c.getJSON(url, &result); err != nil {
		c.log.Warn().Err(err).Str("index", indexName).Msg("Volatility index unavailable")
		return nil
	}
	if result.IndexPrice <= 0 {
		return nil
	}
	return &result.IndexPrice
}

// BuildCandidates fetches the option book and converts it into candidate legs
// for the optimizer: puts only, positive DTE and IV, probability of exercise
// at or below maxPEx, sorted by descending annualized yield so downstream
// dedup keeps the most attractive contract per (strike, expiry).
func (c *Client) BuildCandidates(currency string, maxPEx float64) ([]domain.CandidateLeg, error) {
	summaries, err := c.GetBookSummaries(currency)
	if err != nil {
		return nil, err
	}

	var legs []domain.CandidateLeg
	for _, s := range summaries {
		instr, err := ParseInstrumentName(s.InstrumentName)
		if err != nil {
			c.log.Debug().Str("instrument", s.InstrumentName).Msg("Skipping unparsable instrument")
			continue
		}
		if instr.Type != domain.OptionTypePut {
			continue
		}

		dte := c.daysToExpiry(instr.Expiry)
		if dte <= 0 || s.MarkIV <= 0 || s.UnderlyingPrice <= 0 || s.MarkPrice <= 0 {
			continue
		}

		sigma := s.MarkIV / 100
		timeYears := float64(dte) / 365
		pEx := pricing.ProbabilityOfExercise(s.UnderlyingPrice, instr.Strike, timeYears, sigma, domain.OptionTypePut)
		if pEx > maxPEx {
			continue
		}

		legs = append(legs, domain.CandidateLeg{
			Strike:       instr.Strike,
			Expiry:       instr.ExpiryLabel,
			DTE:          dte,
			MarkIV:       s.MarkIV,
			Underlying:   s.UnderlyingPrice,
			Premium:      s.MarkPrice,
			PremiumUSD:   s.MarkPrice * s.UnderlyingPrice,
			ProbExercise: pEx,
			AnnualYield:  pricing.HedgedAnnualYield(s.MarkPrice, s.UnderlyingPrice, instr.Strike, dte),
			Moneyness:    (instr.Strike - s.UnderlyingPrice) / s.UnderlyingPrice * 100,
			Type:         domain.OptionTypePut,
		})
	}

	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].AnnualYield > legs[j].AnnualYield
	})

	c.log.Debug().
		Str("currency", currency).
		Int("instruments", len(summaries)).
		Int("candidates", len(legs)).
		Msg("Candidate legs built")

	return legs, nil
}

// Instrument is a parsed Deribit option instrument name.
type Instrument struct {
	Currency    string
	ExpiryLabel string // e.g. "27MAR26"
	Expiry      time.Time
	Strike      float64
	Type        domain.OptionType
}

// ParseInstrumentName parses names of the form "BTC-27MAR26-54000-P".
func ParseInstrumentName(name string) (Instrument, error) {
	parts := strings.Split(name, "-")
	if len(parts) != 4 {
		return Instrument{}, fmt.Errorf("unexpected instrument name format: %s", name)
	}

	expiry, err := parseExpiryLabel(parts[1])
	if err != nil {
		return Instrument{}, fmt.Errorf("invalid expiry in %s: %w", name, err)
	}

	strike, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || strike <= 0 {
		return Instrument{}, fmt.Errorf("invalid strike in %s", name)
	}

	var optType domain.OptionType
	switch parts[3] {
	case "P":
		optType = domain.OptionTypePut
	case "C":
		optType = domain.OptionTypeCall
	default:
		return Instrument{}, fmt.Errorf("unknown option type in %s", name)
	}

	return Instrument{
		Currency:    parts[0],
		ExpiryLabel: parts[1],
		Expiry:      expiry,
		Strike:      strike,
		Type:        optType,
	}, nil
}

// parseExpiryLabel parses exchange-style expiry labels like "27MAR26".
// Go's time parser wants mixed-case month names, so normalize first.
func parseExpiryLabel(label string) (time.Time, error) {
	if len(label) < 6 {
		return time.Time{}, fmt.Errorf("label too short: %s", label)
	}
	day := label[:len(label)-5]
	month := label[len(label)-5 : len(label)-2]
	year := label[len(label)-2:]
	normalized := day + month[:1] + strings.ToLower(month[1:]) + year

	t, err := time.Parse("2Jan06", normalized)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), expiryHourUTC, 0, 0, 0, time.UTC), nil
}

func (c *Client) daysToExpiry(expiry time.Time) int {
	return int(math.Ceil(expiry.Sub(c.now()).Hours() / 24))
}

func (c *Client) getJSON(url string, out interface{}) error {
	resp, err := c.client.Get(url)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode result payload: %w", err)
	}
	return nil
}
