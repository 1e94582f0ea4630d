package chat

import (
	"fmt"
	"strings"

	"github.com/catchkin/VoucherGPT/internal/models"
)

// promptTemplate adds a structured answer skeleton when the query matches a
// known question family. The slice order decides which template wins when a
// query matches more than one family.
type promptTemplate struct {
	family   string
	skeleton string
}

var promptTemplates = []promptTemplate{
	{"target market", `
Answer in this form:

1. Target market: [market name]
2. Selection rationale:
   - Market size and growth
   - Local market characteristics
   - Competitive landscape
3. Entry strategy:
   - Primary target customers
   - Entry mode
   - Expected competitive advantage
`},
	{"selection rationale", `
Include these elements in the answer:

1. Market:
   - Market size
   - Growth rate
   - Key trends
2. Product:
   - Product competitiveness
   - Differentiators
   - Local fit
3. Feasibility:
   - Entry readiness
   - Expected results
   - Risk factors
`},
}

// buildPrompt assembles the generation prompt from the company profile, the
// ranked document context and the user query.
func buildPrompt(company models.Company, docs []models.Document, query string) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("You are an expert in writing export voucher business plans. ")
	promptBuilder.WriteString("Use the company information and reference documents to propose the best business plan content. ")
	promptBuilder.WriteString("Ground the answer in the provided material, tailor it to this company rather than giving generic advice, ")
	promptBuilder.WriteString("include concrete figures where possible, and note where additional information would improve the answer.\n\n")

	promptBuilder.WriteString("Company information:\n")
	promptBuilder.WriteString(fmt.Sprintf("- Name: %s\n", company.Name))
	promptBuilder.WriteString(fmt.Sprintf("- Industry: %s\n", company.Industry))
	promptBuilder.WriteString(fmt.Sprintf("- Main products: %s\n", company.ProductCategories))
	promptBuilder.WriteString(fmt.Sprintf("- Export countries: %s\n", strings.Join(company.ExportCountries, ", ")))
	promptBuilder.WriteString(fmt.Sprintf("- Target markets: %s\n", strings.Join(company.TargetMarkets, ", ")))

	promptBuilder.WriteString("\nReference documents:\n")
	for i, doc := range docs {
		promptBuilder.WriteString(fmt.Sprintf("Document %d [%s - %s]:\n", i+1, doc.Type, doc.Title))
		promptBuilder.WriteString(doc.Content)
		promptBuilder.WriteString("\n\n")
	}

	promptBuilder.WriteString("Question: " + query + "\n")

	lowerQuery := strings.ToLower(query)
	for _, template := range promptTemplates {
		if strings.Contains(lowerQuery, template.family) {
			promptBuilder.WriteString(template.skeleton)
			break
		}
	}

	promptBuilder.WriteString("\nAnswer: ")
	return promptBuilder.String()
}
