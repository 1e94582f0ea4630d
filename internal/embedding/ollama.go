package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// Client converts a text string into a fixed-length numeric vector.
// Implementations are remote calls with latency and failure modes; callers
// must treat every error as affecting only the one text being embedded.
type Client interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// OllamaEmbedder generates embeddings using the Ollama API.
type OllamaEmbedder struct {
	Client     *api.Client
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

var _ Client = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder creates a new Ollama embedder. An empty host falls back
// to the OLLAMA_HOST environment variable.
func NewOllamaEmbedder(host string, model string) (*OllamaEmbedder, error) {
	base := envconfig.Host()
	if host != "" {
		parsed, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		base = parsed
	}
	client := api.NewClient(base, http.DefaultClient)

	return &OllamaEmbedder{
		Client:     client,
		Model:      model,
		MaxRetries: 3,
		Timeout:    time.Second * 30,
	}, nil
}

// Embed generates an embedding for a text, retrying transient failures with
// a linear backoff.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	var embedding []float64
	var err error

	for retries := 0; retries <= e.MaxRetries; retries++ {
		if retries > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(retries) * time.Second):
			}
		}

		embedding, err = e.createEmbedding(ctx, text)
		if err == nil {
			return embedding, nil
		}
	}

	return nil, fmt.Errorf("failed to create embedding after %d retries: %w", e.MaxRetries, err)
}

// createEmbedding is a helper function to create a single embedding
func (e *OllamaEmbedder) createEmbedding(ctx context.Context, text string) ([]float64, error) {
	req := api.EmbeddingRequest{
		Model:   e.Model,
		Prompt:  text,
		Options: map[string]any{},
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	resp, err := e.Client.Embeddings(ctxWithTimeout, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	return resp.Embedding, nil
}
