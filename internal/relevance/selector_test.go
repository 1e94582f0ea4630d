package relevance

import (
	"testing"

	"github.com/catchkin/VoucherGPT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredDoc(id int64, score float64) models.ScoredDocument {
	return models.ScoredDocument{
		Document: models.Document{ID: id},
		Score:    score,
	}
}

func selectedIDs(selected []models.ScoredDocument) []int64 {
	ids := make([]int64, len(selected))
	for i, s := range selected {
		ids[i] = s.Document.ID
	}
	return ids
}

func TestSelectTopThresholdIsInclusive(t *testing.T) {
	candidates := []models.ScoredDocument{
		scoredDoc(1, 0.2),
		scoredDoc(2, 0.2-1e-9),
		scoredDoc(3, 0.5),
	}

	selected := SelectTop(candidates, 0.2, 5)

	// Exactly at the threshold is retained; epsilon below is discarded.
	assert.Equal(t, []int64{3, 1}, selectedIDs(selected))
}

func TestSelectTopTiesBreakByIDAscending(t *testing.T) {
	candidates := []models.ScoredDocument{
		scoredDoc(9, 0.5),
		scoredDoc(3, 0.5),
		scoredDoc(7, 0.5),
		scoredDoc(1, 0.9),
	}

	// Repeated runs must produce the identical ordering.
	for i := 0; i < 10; i++ {
		selected := SelectTop(candidates, 0.2, 5)
		assert.Equal(t, []int64{1, 3, 7, 9}, selectedIDs(selected))
	}
}

func TestSelectTopLimitsToTopK(t *testing.T) {
	candidates := make([]models.ScoredDocument, 0, 10)
	for i := int64(1); i <= 10; i++ {
		candidates = append(candidates, scoredDoc(i, float64(i)/10))
	}

	selected := SelectTop(candidates, 0.2, 5)

	require.Len(t, selected, 5)
	// Exactly the five highest scoring.
	assert.Equal(t, []int64{10, 9, 8, 7, 6}, selectedIDs(selected))
}

func TestSelectTopEmptyResultIsNotAnError(t *testing.T) {
	candidates := []models.ScoredDocument{
		scoredDoc(1, 0.05),
		scoredDoc(2, 0.1),
	}

	selected := SelectTop(candidates, 0.2, 5)

	assert.Empty(t, selected)
	assert.NotNil(t, selected)
}

func TestSelectTopNoCandidates(t *testing.T) {
	assert.Empty(t, SelectTop(nil, 0.2, 5))
}
