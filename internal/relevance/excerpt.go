package relevance

import (
	"strings"

	"github.com/catchkin/VoucherGPT/internal/models"
)

// sectionPriority is the order in which business-plan sections are folded
// into the excerpt. Other section types are skipped entirely, biasing the
// embedding context toward strategic content over exhaustive raw text.
var sectionPriority = []models.SectionType{
	models.SectionExecutiveSummary,
	models.SectionMarketAnalysis,
	models.SectionBusinessModel,
}

// ExtractExcerpt reduces a document to a bounded text excerpt suitable for
// embedding. Business plans with sections contribute the title plus the
// prioritized section contents; every other document contributes the title
// plus its raw content. The limit is a hard rune cut with no word-boundary
// logic, so the excerpt may end mid-word.
func ExtractExcerpt(doc models.Document, limit int) string {
	var parts []string
	if doc.Title != "" {
		parts = append(parts, doc.Title)
	}

	if doc.Type == models.DocumentBusinessPlan && len(doc.Sections) > 0 {
		for _, want := range sectionPriority {
			for _, sec := range doc.Sections {
				if sec.Type == want && sec.Content != "" {
					parts = append(parts, sec.Content)
				}
			}
		}
	} else if doc.Content != "" {
		parts = append(parts, doc.Content)
	}

	excerpt := strings.Join(parts, "\n")
	if limit > 0 {
		if runes := []rune(excerpt); len(runes) > limit {
			excerpt = string(runes[:limit])
		}
	}
	return excerpt
}
