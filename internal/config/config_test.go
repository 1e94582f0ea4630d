package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/catchkin/VoucherGPT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "llama3.1", cfg.Ollama.ChatModel)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.EmbeddingModel)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  url: postgres://localhost:5432/vouchergpt
ollama:
  chat_model: mistral
relevance:
  min_score: 0.3
  max_documents: 10
logging:
  format: console
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/vouchergpt", cfg.Database.URL)
	assert.Equal(t, "mistral", cfg.Ollama.ChatModel)
	assert.Equal(t, 0.3, cfg.Relevance.MinScore)
	assert.Equal(t, 10, cfg.Relevance.MaxDocuments)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
relevance:
  min_score: 0.3
`)
	t.Setenv("VOUCHERGPT_RELEVANCE_MIN_SCORE", "0.5")
	t.Setenv("VOUCHERGPT_OLLAMA_CHAT_MODEL", "qwen2")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Relevance.MinScore)
	assert.Equal(t, "qwen2", cfg.Ollama.ChatModel)
}

func TestLoadRejectsInvalidLoggingFormat(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  format: xml
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging format")
}

func TestEngineConfigMapping(t *testing.T) {
	rc := RelevanceConfig{
		SimilarityWeight: 0.6,
		MinScore:         0.25,
		MaxDocuments:     3,
		EmbedTimeoutSecs: 5,
		TypeWeights: map[string]float64{
			"business plan": 0.9,
		},
	}

	cfg := rc.EngineConfig()

	assert.Equal(t, 0.6, cfg.SimilarityWeight)
	// Unset fields keep the relevance defaults.
	assert.Equal(t, 0.2, cfg.TypeWeight)
	assert.Equal(t, 0.1, cfg.RecencyWeight)
	assert.Equal(t, 0.25, cfg.MinScore)
	assert.Equal(t, 3, cfg.MaxDocuments)
	assert.Equal(t, 5*time.Second, cfg.EmbedTimeout)
	assert.Equal(t, 0.9, cfg.TypeWeights[models.DocumentBusinessPlan])
	// Untouched table entries survive.
	assert.Equal(t, 0.7, cfg.TypeWeights[models.DocumentTrainingData])
}
