package plan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/catchkin/VoucherGPT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	company    models.Company
	companyErr error
	document   models.Document
	docErr     error
	created    []*models.Document
	createErr  error
}

func (f *fakeStore) GetCompany(_ context.Context, _ int64) (models.Company, error) {
	return f.company, f.companyErr
}

func (f *fakeStore) GetDocument(_ context.Context, _ int64) (models.Document, error) {
	return f.document, f.docErr
}

func (f *fakeStore) CreateDocument(_ context.Context, doc *models.Document) error {
	f.created = append(f.created, doc)
	return f.createErr
}

type fakeGenerator struct {
	replies []string
	errs    []error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	var reply string
	var err error
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return reply, err
}

func templateDocument() models.Document {
	return models.Document{
		ID:      42,
		Title:   "Export Plan Template",
		Type:    models.DocumentBusinessPlan,
		Content: "template body",
		Sections: []models.Section{
			{Type: models.SectionExecutiveSummary, Title: "Summary", Content: "generic summary", Order: 0},
			{Type: models.SectionMarketAnalysis, Title: "Market", Content: "generic market", Order: 1},
		},
	}
}

func TestGenerateFromTemplateCustomizesSections(t *testing.T) {
	store := &fakeStore{
		company:  models.Company{ID: 7, Name: "Acme Exports", Industry: "Manufacturing"},
		document: templateDocument(),
	}
	gen := &fakeGenerator{replies: []string{"Acme summary", "Acme market view"}}
	builder := NewBuilder(store, gen, nil)

	doc, err := builder.GenerateFromTemplate(context.Background(), 42, 7)

	require.NoError(t, err)
	assert.Equal(t, "Acme Exports - Export Plan Template", doc.Title)
	assert.Equal(t, models.DocumentBusinessPlan, doc.Type)
	assert.Equal(t, "template body", doc.Content)
	require.NotNil(t, doc.CompanyID)
	assert.Equal(t, int64(7), *doc.CompanyID)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, models.SectionExecutiveSummary, doc.Sections[0].Type)
	assert.Equal(t, "Summary", doc.Sections[0].Title)
	assert.Equal(t, "Acme summary", doc.Sections[0].Content)
	assert.Equal(t, 0, doc.Sections[0].Order)
	assert.Equal(t, "Acme market view", doc.Sections[1].Content)
	assert.Equal(t, 1, doc.Sections[1].Order)

	require.Len(t, store.created, 1)
	assert.Same(t, doc, store.created[0])

	// Each rewrite prompt carries the template text and the company profile.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "generic summary")
	assert.Contains(t, gen.prompts[0], "Acme Exports")
}

func TestGenerateFromTemplateKeepsContentWhenRewriteFails(t *testing.T) {
	store := &fakeStore{
		company:  models.Company{ID: 7, Name: "Acme Exports"},
		document: templateDocument(),
	}
	gen := &fakeGenerator{
		replies: []string{"", "Acme market view"},
		errs:    []error{errors.New("model unavailable"), nil},
	}
	builder := NewBuilder(store, gen, nil)

	doc, err := builder.GenerateFromTemplate(context.Background(), 42, 7)

	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "generic summary", doc.Sections[0].Content)
	assert.Equal(t, "Acme market view", doc.Sections[1].Content)
}

func TestGenerateFromTemplateKeepsContentOnEmptyReply(t *testing.T) {
	store := &fakeStore{
		company:  models.Company{ID: 7, Name: "Acme Exports"},
		document: templateDocument(),
	}
	gen := &fakeGenerator{replies: []string{"   \n", "Acme market view"}}
	builder := NewBuilder(store, gen, nil)

	doc, err := builder.GenerateFromTemplate(context.Background(), 42, 7)

	require.NoError(t, err)
	assert.Equal(t, "generic summary", doc.Sections[0].Content)
}

func TestGenerateFromTemplateTemplateLookupErrorPropagates(t *testing.T) {
	lookupErr := errors.New("document store unavailable")
	store := &fakeStore{docErr: lookupErr}
	builder := NewBuilder(store, &fakeGenerator{}, nil)

	_, err := builder.GenerateFromTemplate(context.Background(), 42, 7)

	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, store.created)
}

func TestGenerateFromTemplateCompanyLookupErrorPropagates(t *testing.T) {
	lookupErr := errors.New("document store unavailable")
	store := &fakeStore{document: templateDocument(), companyErr: lookupErr}
	builder := NewBuilder(store, &fakeGenerator{}, nil)

	_, err := builder.GenerateFromTemplate(context.Background(), 42, 7)

	assert.ErrorIs(t, err, lookupErr)
}

func TestGenerateFromTemplateCreateErrorPropagates(t *testing.T) {
	createErr := errors.New("insert failed")
	store := &fakeStore{
		company:   models.Company{ID: 7, Name: "Acme Exports"},
		document:  templateDocument(),
		createErr: createErr,
	}
	gen := &fakeGenerator{replies: []string{"a", "b"}}
	builder := NewBuilder(store, gen, nil)

	_, err := builder.GenerateFromTemplate(context.Background(), 42, 7)

	assert.ErrorIs(t, err, createErr)
}

func TestSectionContent(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"  Drafted market analysis.  "}}
	builder := NewBuilder(&fakeStore{}, gen, nil)
	company := models.Company{Name: "Acme Exports", TargetMarkets: []string{"EU"}}

	content, err := builder.SectionContent(context.Background(), models.SectionMarketAnalysis, company, "industry report text")

	require.NoError(t, err)
	assert.Equal(t, "Drafted market analysis.", content)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "market_analysis")
	assert.Contains(t, gen.prompts[0], "Acme Exports")
	assert.Contains(t, gen.prompts[0], "industry report text")
}

func TestSectionContentGeneratorErrorPropagates(t *testing.T) {
	genErr := errors.New("model unavailable")
	gen := &fakeGenerator{errs: []error{genErr}}
	builder := NewBuilder(&fakeStore{}, gen, nil)

	_, err := builder.SectionContent(context.Background(), models.SectionMarketAnalysis, models.Company{}, "")

	assert.ErrorIs(t, err, genErr)
}

func TestSectionContentOmitsEmptyReference(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"draft"}}
	builder := NewBuilder(&fakeStore{}, gen, nil)

	_, err := builder.SectionContent(context.Background(), models.SectionExecutiveSummary, models.Company{Name: "Acme"}, "")

	require.NoError(t, err)
	assert.False(t, strings.Contains(gen.prompts[0], "Reference material"))
}
