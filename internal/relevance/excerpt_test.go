package relevance

import (
	"strings"
	"testing"

	"github.com/catchkin/VoucherGPT/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractExcerptBusinessPlanSections(t *testing.T) {
	doc := models.Document{
		Title: "Export Plan 2026",
		Type:  models.DocumentBusinessPlan,
		// Raw content must be ignored when sections exist.
		Content: "RAW CONTENT",
		Sections: []models.Section{
			{Type: models.SectionBusinessModel, Content: "business model text"},
			{Type: models.SectionFinancialPlan, Content: "financial plan text"},
			{Type: models.SectionExecutiveSummary, Content: "summary text"},
			{Type: models.SectionMarketAnalysis, Content: "market analysis text"},
		},
	}

	excerpt := ExtractExcerpt(doc, DefaultExcerptLimit)

	// Priority order, not document order: summary, market analysis,
	// business model. Everything else is skipped.
	assert.Equal(t, "Export Plan 2026\nsummary text\nmarket analysis text\nbusiness model text", excerpt)
	assert.NotContains(t, excerpt, "financial plan text")
	assert.NotContains(t, excerpt, "RAW CONTENT")
}

func TestExtractExcerptRawContent(t *testing.T) {
	tests := []struct {
		name string
		doc  models.Document
		want string
	}{
		{
			name: "non plan uses title plus content",
			doc: models.Document{
				Title:   "Q3 Report",
				Type:    models.DocumentFinancialReport,
				Content: "revenue grew",
			},
			want: "Q3 Report\nrevenue grew",
		},
		{
			name: "business plan without sections uses raw content",
			doc: models.Document{
				Title:   "Plan",
				Type:    models.DocumentBusinessPlan,
				Content: "plan body",
			},
			want: "Plan\nplan body",
		},
		{
			name: "empty content yields just the title",
			doc: models.Document{
				Title: "Untitled Notes",
				Type:  models.DocumentOther,
			},
			want: "Untitled Notes",
		},
		{
			name: "no title no content yields empty string",
			doc:  models.Document{Type: models.DocumentOther},
			want: "",
		},
		{
			name: "content without title",
			doc: models.Document{
				Type:    models.DocumentOther,
				Content: "just content",
			},
			want: "just content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractExcerpt(tt.doc, DefaultExcerptLimit))
		})
	}
}

func TestExtractExcerptTruncation(t *testing.T) {
	doc := models.Document{
		Title:   "T",
		Type:    models.DocumentOther,
		Content: strings.Repeat("wordiness ", 1000),
	}

	excerpt := ExtractExcerpt(doc, 25)

	// Hard cut: exactly the limit, mid-word.
	assert.Len(t, []rune(excerpt), 25)
	assert.Equal(t, "T\nwordiness wordiness wor", excerpt)
}
