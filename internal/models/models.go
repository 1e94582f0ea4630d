package models

import (
	"strings"
	"time"
)

// DocumentType classifies a stored document.
type DocumentType string

const (
	DocumentBusinessPlan    DocumentType = "business_plan"
	DocumentCompanyProfile  DocumentType = "company_profile"
	DocumentFinancialReport DocumentType = "financial_report"
	DocumentTrainingData    DocumentType = "training_data"
	DocumentOther           DocumentType = "other"
)

// ParseDocumentType maps a raw string onto the closed DocumentType set.
// Unknown values collapse to DocumentOther.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(normalizeType(s)) {
	case DocumentBusinessPlan:
		return DocumentBusinessPlan
	case DocumentCompanyProfile:
		return DocumentCompanyProfile
	case DocumentFinancialReport:
		return DocumentFinancialReport
	case DocumentTrainingData:
		return DocumentTrainingData
	default:
		return DocumentOther
	}
}

// SectionType classifies a section within a document.
type SectionType string

const (
	SectionExecutiveSummary     SectionType = "executive_summary"
	SectionCompanyOverview      SectionType = "company_overview"
	SectionMarketAnalysis       SectionType = "market_analysis"
	SectionBusinessModel        SectionType = "business_model"
	SectionFinancialPlan        SectionType = "financial_plan"
	SectionTechnicalDescription SectionType = "technical_description"
	SectionOther                SectionType = "other"
)

// ParseSectionType maps a raw string onto the closed SectionType set.
// Unknown values collapse to SectionOther.
func ParseSectionType(s string) SectionType {
	switch SectionType(normalizeType(s)) {
	case SectionExecutiveSummary:
		return SectionExecutiveSummary
	case SectionCompanyOverview:
		return SectionCompanyOverview
	case SectionMarketAnalysis:
		return SectionMarketAnalysis
	case SectionBusinessModel:
		return SectionBusinessModel
	case SectionFinancialPlan:
		return SectionFinancialPlan
	case SectionTechnicalDescription:
		return SectionTechnicalDescription
	default:
		return SectionOther
	}
}

func normalizeType(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "_")
}

// Company represents a company that owns documents and chat sessions.
type Company struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Industry          string    `json:"industry"`
	Description       string    `json:"description"`
	ProductCategories string    `json:"product_categories"`
	ExportCountries   []string  `json:"export_countries"`
	TargetMarkets     []string  `json:"target_markets"`
	CreatedAt         time.Time `json:"created_at"`
}

// Document represents a stored business document. CompanyID is nil for
// company-agnostic reference material such as training data.
type Document struct {
	ID        int64        `json:"id"`
	CompanyID *int64       `json:"company_id,omitempty"`
	Title     string       `json:"title"`
	Type      DocumentType `json:"type"`
	Content   string       `json:"content"`
	Sections  []Section    `json:"sections,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Section is an ordered part of a document. Order is unique within one
// document, not globally.
type Section struct {
	ID         int64             `json:"id"`
	DocumentID int64             `json:"document_id"`
	Type       SectionType       `json:"type"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Order      int               `json:"order"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ScoredDocument pairs a document with its relevance score for one ranking
// invocation. It is never persisted.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// ChatExchange records one question/answer turn together with the documents
// that were used as generation context.
type ChatExchange struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Query       string    `json:"query"`
	Answer      string    `json:"answer"`
	DocumentIDs []int64   `json:"document_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
