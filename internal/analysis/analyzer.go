// Package analysis splits raw document text into typed sections using an
// LLM. Section types outside the known enumeration collapse to "other".
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/catchkin/VoucherGPT/internal/models"

	"go.uber.org/zap"
)

// Generator is the JSON-constrained text generation capability the analyzer
// consumes.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Analyzer turns unstructured document content into ordered sections.
type Analyzer struct {
	gen Generator
	log *zap.Logger
}

// NewAnalyzer creates an analyzer. A nil logger disables logging.
func NewAnalyzer(gen Generator, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{gen: gen, log: log}
}

type sectionPayload struct {
	Sections []struct {
		Type    string `json:"type"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Order   *int   `json:"order"`
	} `json:"sections"`
}

// AnalyzeSections asks the model to structure the content into the known
// section types and parses the JSON reply. Missing orders default to the
// section's index in the reply.
func (a *Analyzer) AnalyzeSections(ctx context.Context, content string) ([]models.Section, error) {
	reply, err := a.gen.GenerateJSON(ctx, buildAnalysisPrompt(content))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document content: %w", err)
	}

	var payload sectionPayload
	if err := json.Unmarshal([]byte(reply), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	sections := make([]models.Section, 0, len(payload.Sections))
	for idx, raw := range payload.Sections {
		secType := models.ParseSectionType(raw.Type)
		if secType == models.SectionOther && raw.Type != string(models.SectionOther) {
			a.log.Debug("unmapped section type collapsed to other",
				zap.String("raw_type", raw.Type))
		}

		order := idx
		if raw.Order != nil {
			order = *raw.Order
		}

		sections = append(sections, models.Section{
			Type:    secType,
			Title:   raw.Title,
			Content: raw.Content,
			Order:   order,
		})
	}

	return sections, nil
}

func buildAnalysisPrompt(content string) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("You are a document analyzer that specializes in business plans and company documents.\n")
	promptBuilder.WriteString("Analyze and structure the document into these sections:\n")
	promptBuilder.WriteString("- Executive Summary\n")
	promptBuilder.WriteString("- Company Overview\n")
	promptBuilder.WriteString("- Market Analysis\n")
	promptBuilder.WriteString("- Business Model\n")
	promptBuilder.WriteString("- Financial Plan\n")
	promptBuilder.WriteString("- Technical Description\n\n")
	promptBuilder.WriteString("Return the sections as JSON in this form:\n")
	promptBuilder.WriteString(`{"sections": [{"type": "section type", "title": "section title", "content": "section content", "order": 0}]}`)
	promptBuilder.WriteString("\n\nDocument content to analyze:\n")
	promptBuilder.WriteString(content)

	return promptBuilder.String()
}
