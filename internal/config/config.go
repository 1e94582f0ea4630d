// Package config provides configuration loading for VoucherGPT.
//
// Precedence (highest to lowest): environment variables, YAML config file,
// hardcoded defaults. Environment variables use the VOUCHERGPT_ prefix with
// an underscore separator, e.g. VOUCHERGPT_DATABASE_URL -> database.url and
// VOUCHERGPT_RELEVANCE_MIN_SCORE -> relevance.min_score.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/catchkin/VoucherGPT/internal/models"
	"github.com/catchkin/VoucherGPT/internal/relevance"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "VOUCHERGPT_"

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Ollama    OllamaConfig    `koanf:"ollama"`
	Relevance RelevanceConfig `koanf:"relevance"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// OllamaConfig selects the models used for chat and embeddings.
type OllamaConfig struct {
	Host           string `koanf:"host"`
	ChatModel      string `koanf:"chat_model"`
	EmbeddingModel string `koanf:"embedding_model"`
}

// RelevanceConfig exposes the ranking parameters. Zero values fall back to
// the relevance package defaults.
type RelevanceConfig struct {
	SimilarityWeight float64            `koanf:"similarity_weight"`
	TypeWeight       float64            `koanf:"type_weight"`
	RecencyWeight    float64            `koanf:"recency_weight"`
	TypeWeights      map[string]float64 `koanf:"type_weights"`
	MinScore         float64            `koanf:"min_score"`
	MaxDocuments     int                `koanf:"max_documents"`
	ExcerptLimit     int                `koanf:"excerpt_limit"`
	EmbedConcurrency int                `koanf:"embed_concurrency"`
	EmbedTimeoutSecs int                `koanf:"embed_timeout_secs"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads configuration from an optional YAML file, then overrides with
// environment variables. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// VOUCHERGPT_RELEVANCE_MIN_SCORE -> relevance.min_score:
		// strip the prefix, lowercase, split on the first underscore only.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Ollama.ChatModel == "" {
		cfg.Ollama.ChatModel = "llama3.1"
	}
	if cfg.Ollama.EmbeddingModel == "" {
		cfg.Ollama.EmbeddingModel = "nomic-embed-text"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	if c.Relevance.MinScore < 0 {
		return fmt.Errorf("relevance min_score must not be negative, got %v", c.Relevance.MinScore)
	}
	if c.Relevance.MaxDocuments < 0 {
		return fmt.Errorf("relevance max_documents must not be negative, got %d", c.Relevance.MaxDocuments)
	}
	return nil
}

// EngineConfig maps the file-level relevance settings onto the engine's
// Config, starting from the package defaults.
func (c RelevanceConfig) EngineConfig() relevance.Config {
	cfg := relevance.DefaultConfig()

	if c.SimilarityWeight > 0 {
		cfg.SimilarityWeight = c.SimilarityWeight
	}
	if c.TypeWeight > 0 {
		cfg.TypeWeight = c.TypeWeight
	}
	if c.RecencyWeight > 0 {
		cfg.RecencyWeight = c.RecencyWeight
	}
	for rawType, weight := range c.TypeWeights {
		cfg.TypeWeights[models.ParseDocumentType(rawType)] = weight
	}
	if c.MinScore > 0 {
		cfg.MinScore = c.MinScore
	}
	if c.MaxDocuments > 0 {
		cfg.MaxDocuments = c.MaxDocuments
	}
	if c.ExcerptLimit > 0 {
		cfg.ExcerptLimit = c.ExcerptLimit
	}
	if c.EmbedConcurrency > 0 {
		cfg.EmbedConcurrency = c.EmbedConcurrency
	}
	if c.EmbedTimeoutSecs > 0 {
		cfg.EmbedTimeout = time.Duration(c.EmbedTimeoutSecs) * time.Second
	}

	return cfg
}
