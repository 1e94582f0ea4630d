package relevance

import (
	"sort"

	"github.com/catchkin/VoucherGPT/internal/models"
)

// SelectTop filters scored candidates against an inclusive minimum score,
// orders them by score descending and truncates to the limit. Ties are
// broken by document ID ascending so repeated runs produce identical
// orderings regardless of input or completion order. An empty result is not
// an error condition.
func SelectTop(candidates []models.ScoredDocument, minScore float64, limit int) []models.ScoredDocument {
	kept := make([]models.ScoredDocument, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= minScore {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Document.ID < kept[j].Document.ID
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
