// Command plangen generates a company-customized business plan from a stored
// template document and prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/catchkin/VoucherGPT/internal/config"
	"github.com/catchkin/VoucherGPT/internal/llm"
	"github.com/catchkin/VoucherGPT/internal/logging"
	"github.com/catchkin/VoucherGPT/internal/plan"
	"github.com/catchkin/VoucherGPT/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	templateID := flag.Int64("template", 0, "Template document ID (required)")
	companyID := flag.Int64("company", 0, "Company ID to customize for (required)")
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

	if *templateID <= 0 {
		log.Fatal("Template document ID is required. Use -template <id>")
	}
	if *companyID <= 0 {
		log.Fatal("Company ID is required. Use -company <id>")
	}

	ctx := context.Background()

	db, err := store.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	llmClient, err := llm.NewOllamaLLM(cfg.Ollama.Host, cfg.Ollama.ChatModel)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	builder := plan.NewBuilder(db, llmClient, logger)

	startTime := time.Now()
	doc, err := builder.GenerateFromTemplate(ctx, *templateID, *companyID)
	if err != nil {
		logger.Fatal("Failed to generate plan", zap.Error(err))
	}

	logger.Info("plan generated",
		zap.Int64("document_id", doc.ID),
		zap.Int("sections", len(doc.Sections)),
		zap.Duration("elapsed", time.Since(startTime)))

	fmt.Printf("# %s\n", doc.Title)
	for _, sec := range doc.Sections {
		fmt.Printf("\n## %s\n\n%s\n", sec.Title, sec.Content)
	}
}
