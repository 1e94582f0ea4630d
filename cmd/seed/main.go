// Command seed initializes the database schema and loads a company together
// with text documents from a directory, running the LLM section analyzer on
// business plans.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/catchkin/VoucherGPT/internal/analysis"
	"github.com/catchkin/VoucherGPT/internal/config"
	"github.com/catchkin/VoucherGPT/internal/llm"
	"github.com/catchkin/VoucherGPT/internal/logging"
	"github.com/catchkin/VoucherGPT/internal/models"
	"github.com/catchkin/VoucherGPT/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	docDir := flag.String("dir", "", "Directory of .txt documents to load (required)")
	docType := flag.String("type", string(models.DocumentBusinessPlan), "Document type for loaded files")
	companyName := flag.String("company-name", "", "Company name (required)")
	industry := flag.String("industry", "", "Company industry")
	products := flag.String("products", "", "Main product categories")
	markets := flag.String("markets", "", "Comma-separated target markets")
	analyze := flag.Bool("analyze", true, "Split business plans into sections with the LLM")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if *docDir == "" {
		log.Fatal("Document directory is required. Use -dir <path>")
	}
	if *companyName == "" {
		log.Fatal("Company name is required. Use -company-name <name>")
	}

	ctx := context.Background()

	db, err := store.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Initialize(ctx); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	logger.Info("database initialized")

	var analyzer *analysis.Analyzer
	if *analyze {
		llmClient, err := llm.NewOllamaLLM(cfg.Ollama.Host, cfg.Ollama.ChatModel)
		if err != nil {
			logger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		analyzer = analysis.NewAnalyzer(llmClient, logger)
	}

	company := &models.Company{
		Name:              *companyName,
		Industry:          *industry,
		ProductCategories: *products,
		TargetMarkets:     splitList(*markets),
	}
	if err := db.CreateCompany(ctx, company); err != nil {
		logger.Fatal("Failed to create company", zap.Error(err))
	}
	logger.Info("company created",
		zap.Int64("company_id", company.ID),
		zap.String("name", company.Name))

	entries, err := os.ReadDir(*docDir)
	if err != nil {
		logger.Fatal("Failed to read document directory", zap.Error(err))
	}

	parsedType := models.ParseDocumentType(*docType)
	loaded := 0
	startTime := time.Now()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}

		path := filepath.Join(*docDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("Failed to read document", zap.String("path", path), zap.Error(err))
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			logger.Warn("skipping empty document", zap.String("path", path))
			continue
		}

		doc := &models.Document{
			Title:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Type:    parsedType,
			Content: string(content),
		}
		if parsedType != models.DocumentTrainingData {
			doc.CompanyID = &company.ID
		}

		if analyzer != nil && parsedType == models.DocumentBusinessPlan {
			sections, err := analyzer.AnalyzeSections(ctx, doc.Content)
			if err != nil {
				logger.Warn("section analysis failed, storing document without sections",
					zap.String("title", doc.Title),
					zap.Error(err))
			} else {
				doc.Sections = sections
			}
		}

		if err := db.CreateDocument(ctx, doc); err != nil {
			logger.Fatal("Failed to store document", zap.String("title", doc.Title), zap.Error(err))
		}
		logger.Info("document stored",
			zap.Int64("document_id", doc.ID),
			zap.String("title", doc.Title),
			zap.Int("sections", len(doc.Sections)))
		loaded++
	}

	logger.Info("seed complete",
		zap.Int("documents", loaded),
		zap.Duration("elapsed", time.Since(startTime)))
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
