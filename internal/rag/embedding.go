package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyText is returned when an empty string is submitted for embedding.
var ErrEmptyText = errors.New("cannot embed empty text")

// Embedder maps a text to a fixed-length unit-norm vector. Implementations
// wrap a pretrained embedding model; the retriever only depends on this contract.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// OpenAIEmbedder produces embeddings through an OpenAI-compatible API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dims   int
}

// NewOpenAIEmbedder creates an embedder for the given model. baseURL may point
// at a proxy; an empty baseURL uses the provider default. dims of zero skips
// the dimensionality check.
func NewOpenAIEmbedder(apiKey, baseURL, model string, dims int) (*OpenAIEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("embedding API key is empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("embedding model is empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dims:   dims,
	}, nil
}

// Embed requests an embedding vector and L2-normalizes it so that downstream
// similarity reduces to a dot product.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}

	vector := resp.Data[0].Embedding
	if len(vector) == 0 {
		return nil, errors.New("embedding response returned empty vector")
	}
	if e.dims > 0 && len(vector) != e.dims {
		return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(vector), e.dims)
	}

	l2normalize(vector)
	return vector, nil
}

// Dimensions returns the configured vector dimensionality, or zero if unknown.
func (e *OpenAIEmbedder) Dimensions() int { return e.dims }

// l2normalize scales v to unit length in place. A zero vector is left as is.
func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
