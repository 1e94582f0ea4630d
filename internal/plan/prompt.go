package plan

import (
	"fmt"
	"strings"

	"github.com/catchkin/VoucherGPT/internal/models"
)

// buildCustomizePrompt asks the model to adapt existing template text to one
// company's profile.
func buildCustomizePrompt(templateContent string, company models.Company) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("You are an assistant that specializes in customizing business document content. ")
	promptBuilder.WriteString("Rewrite the template content below so it fits the given company. ")
	promptBuilder.WriteString("Keep the structure and intent of the template; replace generic statements with this company's specifics.\n\n")

	promptBuilder.WriteString("Template content:\n")
	promptBuilder.WriteString(templateContent)

	promptBuilder.WriteString("\n\nCompany information:\n")
	writeCompanyInfo(&promptBuilder, company)

	return promptBuilder.String()
}

// buildSectionPrompt asks the model to draft one business-plan section from
// scratch, optionally grounded in reference material.
func buildSectionPrompt(sectionType models.SectionType, company models.Company, referenceText string) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("You are an expert in writing export voucher business plans.\n")
	promptBuilder.WriteString(fmt.Sprintf("Write the %s section of an export voucher business plan based on the information below.\n\n", sectionType))

	promptBuilder.WriteString("Company information:\n")
	writeCompanyInfo(&promptBuilder, company)

	if referenceText != "" {
		promptBuilder.WriteString("\nReference material:\n")
		promptBuilder.WriteString(referenceText)
		promptBuilder.WriteString("\n")
	}

	return promptBuilder.String()
}

func writeCompanyInfo(promptBuilder *strings.Builder, company models.Company) {
	promptBuilder.WriteString(fmt.Sprintf("- Name: %s\n", company.Name))
	promptBuilder.WriteString(fmt.Sprintf("- Industry: %s\n", company.Industry))
	promptBuilder.WriteString(fmt.Sprintf("- Description: %s\n", company.Description))
	promptBuilder.WriteString(fmt.Sprintf("- Main products: %s\n", company.ProductCategories))
	promptBuilder.WriteString(fmt.Sprintf("- Export countries: %s\n", strings.Join(company.ExportCountries, ", ")))
	promptBuilder.WriteString(fmt.Sprintf("- Target markets: %s\n", strings.Join(company.TargetMarkets, ", ")))
}
