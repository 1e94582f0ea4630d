package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/catchkin/VoucherGPT/internal/chat"
	"github.com/catchkin/VoucherGPT/internal/config"
	"github.com/catchkin/VoucherGPT/internal/embedding"
	"github.com/catchkin/VoucherGPT/internal/llm"
	"github.com/catchkin/VoucherGPT/internal/logging"
	"github.com/catchkin/VoucherGPT/internal/relevance"
	"github.com/catchkin/VoucherGPT/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	companyID := flag.Int64("company", 0, "Company ID to chat about (required)")
	queryFlag := flag.String("q", "", "Question to answer (non-interactive mode)")
	interactive := flag.Bool("i", false, "Run in interactive mode")
	flag.Parse()

	// Load .env if present; real env vars take precedence.
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

	if *companyID <= 0 {
		log.Fatal("Company ID is required. Use -company <id>")
	}

	ctx := context.Background()

	db, err := store.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	embedder, err := embedding.NewOllamaEmbedder(cfg.Ollama.Host, cfg.Ollama.EmbeddingModel)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}

	llmClient, err := llm.NewOllamaLLM(cfg.Ollama.Host, cfg.Ollama.ChatModel)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	engine := relevance.NewEngine(db, embedder, cfg.Relevance.EngineConfig(), logger)
	chatService := chat.NewService(db, engine, llmClient, logger)

	if *interactive {
		runInteractiveMode(ctx, chatService, *companyID, logger)
		return
	}

	if *queryFlag == "" {
		log.Fatal("Question is required in non-interactive mode. Use -q 'your question'")
	}

	answer, err := processQuery(ctx, chatService, *companyID, *queryFlag, logger)
	if err != nil {
		logger.Fatal("Failed to process question", zap.Error(err))
	}
	fmt.Println(answer)
}

func runInteractiveMode(ctx context.Context, chatService *chat.Service, companyID int64, logger *zap.Logger) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("VoucherGPT - Ask questions about company %d's business plans (type 'exit' to quit)\n", companyID)

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		input := scanner.Text()
		if strings.ToLower(input) == "exit" || strings.ToLower(input) == "quit" {
			break
		}

		if strings.TrimSpace(input) == "" {
			continue
		}

		fmt.Print("Searching company documents... ")

		answer, err := processQuery(ctx, chatService, companyID, input, logger)
		if err != nil {
			fmt.Printf("\rError: %v\n", err)
			continue
		}

		fmt.Println("\r" + answer)
	}
}

func processQuery(ctx context.Context, chatService *chat.Service, companyID int64, query string, logger *zap.Logger) (string, error) {
	startTime := time.Now()

	answer, err := chatService.Respond(ctx, companyID, query)
	if err != nil {
		return "", err
	}

	logger.Info("question processed",
		zap.Int64("company_id", companyID),
		zap.Duration("elapsed", time.Since(startTime)))

	return answer, nil
}
