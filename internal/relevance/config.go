// Package relevance scores and ranks candidate documents for a free-text
// query, selecting the subset used as generation context for chat responses.
package relevance

import (
	"time"

	"github.com/catchkin/VoucherGPT/internal/models"
)

const (
	DefaultMinScore     = 0.2
	DefaultMaxDocuments = 5
	DefaultExcerptLimit = 8000
)

// RecencyBracket maps a document age to a recency weight. The age bound is
// inclusive: a document exactly MaxAgeDays old gets this bracket's weight.
type RecencyBracket struct {
	MaxAgeDays int
	Weight     float64
}

// Config carries the ranking parameters. The weighting constants are untuned
// defaults carried over from the original service; they are configuration,
// not calibrated values.
type Config struct {
	// SimilarityWeight, TypeWeight and RecencyWeight combine the three
	// scoring signals. With the defaults the composite score stays in
	// [0,1] as long as cosine similarity is in [0,1]; embedding models in
	// practice produce similarities in that range, and scores are never
	// clamped.
	SimilarityWeight float64
	TypeWeight       float64
	RecencyWeight    float64

	// TypeWeights is the per-classification prior. Types missing from the
	// table fall back to DefaultTypeWeight.
	TypeWeights       map[models.DocumentType]float64
	DefaultTypeWeight float64

	// RecencyBrackets must be ordered by ascending MaxAgeDays. Documents
	// older than every bracket get RecencyFloor.
	RecencyBrackets []RecencyBracket
	RecencyFloor    float64

	// MinScore is an inclusive lower bound: candidates scoring exactly
	// MinScore are retained.
	MinScore     float64
	MaxDocuments int

	// ExcerptLimit caps the text sent to the embedding provider, counted
	// in runes with a hard cut.
	ExcerptLimit int

	EmbedConcurrency int
	EmbedTimeout     time.Duration
}

// DefaultConfig returns the ranking parameters used in production.
func DefaultConfig() Config {
	return Config{
		SimilarityWeight: 0.7,
		TypeWeight:       0.2,
		RecencyWeight:    0.1,
		TypeWeights: map[models.DocumentType]float64{
			models.DocumentBusinessPlan:    1.0,
			models.DocumentCompanyProfile:  0.8,
			models.DocumentTrainingData:    0.7,
			models.DocumentFinancialReport: 0.6,
			models.DocumentOther:           0.5,
		},
		DefaultTypeWeight: 0.5,
		RecencyBrackets: []RecencyBracket{
			{MaxAgeDays: 30, Weight: 1.0},
			{MaxAgeDays: 90, Weight: 0.8},
			{MaxAgeDays: 180, Weight: 0.6},
			{MaxAgeDays: 365, Weight: 0.4},
		},
		RecencyFloor:     0.2,
		MinScore:         DefaultMinScore,
		MaxDocuments:     DefaultMaxDocuments,
		ExcerptLimit:     DefaultExcerptLimit,
		EmbedConcurrency: 3,
		EmbedTimeout:     10 * time.Second,
	}
}

// withDefaults fills structural zero values so a partially populated Config
// behaves sensibly.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TypeWeights == nil {
		c.TypeWeights = def.TypeWeights
	}
	if c.DefaultTypeWeight <= 0 {
		c.DefaultTypeWeight = def.DefaultTypeWeight
	}
	if c.RecencyBrackets == nil {
		c.RecencyBrackets = def.RecencyBrackets
	}
	if c.RecencyFloor <= 0 {
		c.RecencyFloor = def.RecencyFloor
	}
	if c.MaxDocuments <= 0 {
		c.MaxDocuments = def.MaxDocuments
	}
	if c.ExcerptLimit <= 0 {
		c.ExcerptLimit = def.ExcerptLimit
	}
	if c.EmbedConcurrency <= 0 {
		c.EmbedConcurrency = def.EmbedConcurrency
	}
	if c.EmbedTimeout <= 0 {
		c.EmbedTimeout = def.EmbedTimeout
	}
	return c
}
