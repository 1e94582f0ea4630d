// Package chat answers free-text questions about a company using relevant
// stored documents as generation context.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/catchkin/VoucherGPT/internal/models"

	"go.uber.org/zap"
)

// Store is the persistence capability the chat service consumes.
type Store interface {
	GetCompany(ctx context.Context, id int64) (models.Company, error)
	SaveChatExchange(ctx context.Context, exchange *models.ChatExchange) error
}

// Ranker selects the documents used as generation context.
type Ranker interface {
	RankRelevantDocuments(ctx context.Context, query string, companyID int64) ([]models.Document, error)
}

// Generator is the text generation capability the chat service consumes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// requiredKeywords lists terms a valid answer must contain for known
// question families. Answers missing them are regenerated.
var requiredKeywords = map[string][]string{
	"target market":       {"market", "growth"},
	"selection rationale": {"market", "product"},
}

// Service generates chat responses grounded in company documents.
type Service struct {
	store      Store
	ranker     Ranker
	gen        Generator
	log        *zap.Logger
	maxRetries int
	retryDelay time.Duration
}

// NewService creates a chat service. A nil logger disables logging.
func NewService(store Store, ranker Ranker, gen Generator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:      store,
		ranker:     ranker,
		gen:        gen,
		log:        log,
		maxRetries: 2,
		retryDelay: time.Second,
	}
}

// Respond answers a query for a company. Generation failures degrade to a
// static fallback answer; only company lookup and candidate collection
// errors propagate.
func (s *Service) Respond(ctx context.Context, companyID int64, query string) (string, error) {
	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("loading company: %w", err)
	}

	docs, err := s.ranker.RankRelevantDocuments(ctx, query, companyID)
	if err != nil {
		return "", fmt.Errorf("ranking documents: %w", err)
	}

	answer := s.generateAnswer(ctx, company, docs, query)

	exchange := &models.ChatExchange{
		CompanyID:   companyID,
		Query:       query,
		Answer:      answer,
		DocumentIDs: documentIDs(docs),
	}
	if err := s.store.SaveChatExchange(ctx, exchange); err != nil {
		// History is best effort; the answer still goes out.
		s.log.Warn("failed to record chat exchange",
			zap.Int64("company_id", companyID),
			zap.Error(err))
	}

	return answer, nil
}

// generateAnswer calls the model with bounded retries, validating each
// attempt. When every attempt fails it returns the static fallback answer.
func (s *Service) generateAnswer(ctx context.Context, company models.Company, docs []models.Document, query string) string {
	prompt := buildPrompt(company, docs, query)

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fallbackAnswer
			case <-time.After(s.retryDelay):
			}
		}

		answer, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			s.log.Warn("chat generation attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		if validateAnswer(answer, query) {
			return formatAnswer(answer)
		}
	}

	s.log.Error("chat generation exhausted retries, serving fallback answer",
		zap.Int64("company_id", company.ID))
	return fallbackAnswer
}

// validateAnswer rejects answers that are too short or that miss required
// keywords for the detected question family. Length is counted in runes so
// multibyte answers are measured the same as ASCII ones.
func validateAnswer(answer, query string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(answer)) < 50 {
		return false
	}

	lowerQuery := strings.ToLower(query)
	lowerAnswer := strings.ToLower(answer)
	for key, keywords := range requiredKeywords {
		if !strings.Contains(lowerQuery, key) {
			continue
		}
		for _, keyword := range keywords {
			if !strings.Contains(lowerAnswer, keyword) {
				return false
			}
		}
	}

	return true
}

// formatAnswer strips blank lines and ensures a markdown heading.
func formatAnswer(answer string) string {
	var lines []string
	for _, line := range strings.Split(answer, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	formatted := strings.Join(lines, "\n")

	if !strings.HasPrefix(formatted, "#") {
		formatted = "## Answer\n\n" + formatted
	}
	return formatted
}

const fallbackAnswer = `## Answer

Sorry, we are currently unable to generate a detailed answer to your request.
Providing the following information would allow a more precise answer:

1. Details about your main products or services
2. Concrete preferences for your target markets
3. Export track record or overseas business experience so far

If you need a more specific answer, please ask again including the information above.`

func documentIDs(docs []models.Document) []int64 {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]int64, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids
}
