// Package plan drafts business-plan content for a company: whole documents
// cloned from a stored template with each section rewritten for the company,
// and standalone section drafts from company info plus reference material.
package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/catchkin/VoucherGPT/internal/models"

	"go.uber.org/zap"
)

// Store is the persistence capability the builder consumes.
type Store interface {
	GetCompany(ctx context.Context, id int64) (models.Company, error)
	GetDocument(ctx context.Context, id int64) (models.Document, error)
	CreateDocument(ctx context.Context, doc *models.Document) error
}

// Generator is the text generation capability the builder consumes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Builder generates plan documents and section drafts.
type Builder struct {
	store Store
	gen   Generator
	log   *zap.Logger
}

// NewBuilder creates a plan builder. A nil logger disables logging.
func NewBuilder(store Store, gen Generator, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{store: store, gen: gen, log: log}
}

// GenerateFromTemplate clones a template document for a company, rewriting
// each section's content to fit the company profile. The new document keeps
// the template's type, raw content and section ordering, is titled
// "<company> - <template title>" and is owned by the company. Lookup and
// persistence errors propagate; per-section rewrite failures keep the
// template's original section content.
func (b *Builder) GenerateFromTemplate(ctx context.Context, templateID, companyID int64) (*models.Document, error) {
	template, err := b.store.GetDocument(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("loading template document: %w", err)
	}
	company, err := b.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	owner := companyID
	doc := &models.Document{
		CompanyID: &owner,
		Title:     fmt.Sprintf("%s - %s", company.Name, template.Title),
		Type:      template.Type,
		Content:   template.Content,
	}

	for _, sec := range template.Sections {
		doc.Sections = append(doc.Sections, models.Section{
			Type:    sec.Type,
			Title:   sec.Title,
			Content: b.customizeSection(ctx, sec.Content, company),
			Order:   sec.Order,
		})
	}

	if err := b.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("storing generated document: %w", err)
	}
	return doc, nil
}

// customizeSection rewrites template content for the company. Generation
// failures and empty replies fall back to the unmodified template content.
func (b *Builder) customizeSection(ctx context.Context, content string, company models.Company) string {
	reply, err := b.gen.Generate(ctx, buildCustomizePrompt(content, company))
	if err != nil {
		b.log.Warn("section customization failed, keeping template content",
			zap.Int64("company_id", company.ID),
			zap.Error(err))
		return content
	}
	if trimmed := strings.TrimSpace(reply); trimmed != "" {
		return trimmed
	}
	return content
}

// SectionContent drafts one plan section from the company profile and
// optional reference material.
func (b *Builder) SectionContent(ctx context.Context, sectionType models.SectionType, company models.Company, referenceText string) (string, error) {
	reply, err := b.gen.Generate(ctx, buildSectionPrompt(sectionType, company, referenceText))
	if err != nil {
		return "", fmt.Errorf("drafting %s section: %w", sectionType, err)
	}
	return strings.TrimSpace(reply), nil
}
