package relevance

import (
	"time"

	"github.com/catchkin/VoucherGPT/internal/models"
)

// Score combines the three relevance signals for one (query, document) pair:
//
//	score = similarity*SimilarityWeight + typeWeight*TypeWeight + recencyWeight*RecencyWeight
//
// Semantic match dominates, document type is a secondary prior and freshness
// a minor tiebreaker. The result is not re-normalized; see the precondition
// on Config.
func (c Config) Score(similarity float64, doc models.Document, now time.Time) float64 {
	return similarity*c.SimilarityWeight +
		c.typeWeightFor(doc.Type)*c.TypeWeight +
		c.recencyWeightFor(now.Sub(doc.CreatedAt))*c.RecencyWeight
}

func (c Config) typeWeightFor(t models.DocumentType) float64 {
	if w, ok := c.TypeWeights[t]; ok {
		return w
	}
	return c.DefaultTypeWeight
}

func (c Config) recencyWeightFor(age time.Duration) float64 {
	ageDays := age.Hours() / 24
	for _, bracket := range c.RecencyBrackets {
		if ageDays <= float64(bracket.MaxAgeDays) {
			return bracket.Weight
		}
	}
	return c.RecencyFloor
}
