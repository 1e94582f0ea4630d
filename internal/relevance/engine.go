package relevance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/catchkin/VoucherGPT/internal/embedding"
	"github.com/catchkin/VoucherGPT/internal/models"

	"go.uber.org/zap"
)

// DocumentSource is the document-lookup capability the engine consumes. The
// production implementation is the Postgres store; it fails with a
// data-access error which the engine surfaces without retrying.
type DocumentSource interface {
	GetDocumentsByCompany(ctx context.Context, companyID int64) ([]models.Document, error)
	GetDocumentsByType(ctx context.Context, docType models.DocumentType) ([]models.Document, error)
}

// Engine ranks candidate documents for a query. It holds no mutable state
// across invocations; the embedding provider and configuration are injected
// so tests can substitute deterministic fakes.
type Engine struct {
	source   DocumentSource
	embedder embedding.Client
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(source DocumentSource, embedder embedding.Client, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		source:   source,
		embedder: embedder,
		cfg:      cfg.withDefaults(),
		log:      log,
		now:      time.Now,
	}
}

// RankRelevantDocuments returns at most MaxDocuments documents for the
// query, ordered most-to-least relevant. Candidate collection failures
// propagate to the caller; every failure after that degrades to the first
// MaxDocuments candidates in stable input order so the chat feature always
// receives some document list.
func (e *Engine) RankRelevantDocuments(ctx context.Context, query string, companyID int64) ([]models.Document, error) {
	pool, err := e.collectCandidates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []models.Document{}, nil
	}

	ranked, err := e.rank(ctx, query, pool)
	if err != nil {
		if ctx.Err() != nil {
			// Request cancelled; no point serving degraded results.
			return nil, ctx.Err()
		}
		e.log.Error("scoring pipeline failed, serving unranked candidates",
			zap.Int64("company_id", companyID),
			zap.Int("pool_size", len(pool)),
			zap.Error(err))
		return unrankedFallback(pool, e.cfg.MaxDocuments), nil
	}
	return ranked, nil
}

// collectCandidates gathers company-owned documents plus the shared pool of
// training references, deduplicated by ID in stable input order. No
// pagination is applied; the full candidate set is gathered before scoring.
func (e *Engine) collectCandidates(ctx context.Context, companyID int64) ([]models.Document, error) {
	owned, err := e.source.GetDocumentsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("collecting company documents: %w", err)
	}
	training, err := e.source.GetDocumentsByType(ctx, models.DocumentTrainingData)
	if err != nil {
		return nil, fmt.Errorf("collecting training documents: %w", err)
	}

	seen := make(map[int64]struct{}, len(owned)+len(training))
	pool := make([]models.Document, 0, len(owned)+len(training))
	for _, doc := range append(owned, training...) {
		if _, ok := seen[doc.ID]; ok {
			continue
		}
		seen[doc.ID] = struct{}{}
		pool = append(pool, doc)
	}
	return pool, nil
}

// rank runs the scoring pipeline: embed the query, embed each candidate's
// excerpt concurrently, score and select. Per-document embedding failures
// are logged and the document dropped; a query embedding failure or a panic
// fails the whole pipeline and is converted to the fallback by the caller.
func (e *Engine) rank(ctx context.Context, query string, pool []models.Document) (docs []models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring pipeline panic: %v", r)
		}
	}()

	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	type embedResult struct {
		vec []float64
		err error
	}
	results := make([]embedResult, len(pool))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.cfg.EmbedConcurrency)
	for i := range pool {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i].err = ctx.Err()
				return
			}

			excerpt := ExtractExcerpt(pool[i], e.cfg.ExcerptLimit)
			embedCtx, cancel := context.WithTimeout(ctx, e.cfg.EmbedTimeout)
			defer cancel()

			vec, embedErr := e.embedder.Embed(embedCtx, excerpt)
			results[i] = embedResult{vec: vec, err: embedErr}
		}(i)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	now := e.now()
	scored := make([]models.ScoredDocument, 0, len(pool))
	for i := range pool {
		if results[i].err != nil {
			e.log.Warn("excluding document from scoring: excerpt embedding failed",
				zap.Int64("document_id", pool[i].ID),
				zap.Error(results[i].err))
			continue
		}
		similarity := CosineSimilarity(queryVec, results[i].vec)
		scored = append(scored, models.ScoredDocument{
			Document: pool[i],
			Score:    e.cfg.Score(similarity, pool[i], now),
		})
	}

	selected := SelectTop(scored, e.cfg.MinScore, e.cfg.MaxDocuments)
	docs = make([]models.Document, len(selected))
	for i, s := range selected {
		docs[i] = s.Document
	}
	return docs, nil
}

// unrankedFallback returns the head of the original candidate pool in its
// stable input order: degraded but present context.
func unrankedFallback(pool []models.Document, limit int) []models.Document {
	if limit > len(pool) {
		limit = len(pool)
	}
	out := make([]models.Document, limit)
	copy(out, pool[:limit])
	return out
}
