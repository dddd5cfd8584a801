// internal/cli/deps.go
package quizdeck

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/starfield-labs/quizdeck/internal/appconfig"
	"github.com/starfield-labs/quizdeck/internal/board"
	"github.com/starfield-labs/quizdeck/internal/game"
	"github.com/starfield-labs/quizdeck/internal/llm"
	"github.com/starfield-labs/quizdeck/internal/rag"
)

// requireAPIKey fails early with a pointed message instead of a mid-game 401.
func requireAPIKey(cfg *appconfig.Config) (string, error) {
	key := cfg.APIKey()
	if key == "" {
		return "", fmt.Errorf("no API key: set %s in the environment or a .env file", appconfig.APIKeyEnvVar)
	}
	return key, nil
}

// newEmbedder builds the embedding client used for corpus retrieval.
func newEmbedder(cfg *appconfig.Config, apiKey string) (rag.Embedder, error) {
	return rag.NewOpenAIEmbedder(apiKey, cfg.APIBase, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
}

// newGrounding builds the retrieval pipeline, or nil when ragMode is off.
func newGrounding(cfg *appconfig.Config, apiKey string) (*rag.Grounding, error) {
	if !cfg.RagMode {
		return nil, nil
	}
	emb, err := newEmbedder(cfg, apiKey)
	if err != nil {
		return nil, err
	}
	return rag.NewGrounding(emb, cfg.RagCorpusPath, cfg.RagIndexPath, cfg.MinChunkChars(), cfg.RelevanceCutoff()), nil
}

// newGenerator wires the chat client, synthesizer and optional grounding into
// a board generator.
func newGenerator(cfg *appconfig.Config, apiKey string) (*board.Generator, *llm.Client, error) {
	client, err := llm.NewClient(apiKey, cfg.APIBase, cfg.ChatModel, cfg.RequestTimeout())
	if err != nil {
		return nil, nil, err
	}
	synth := board.NewSynthesizer(client, cfg.QuizTopic(), cfg.SynthesisAttempts())

	grounding, err := newGrounding(cfg, apiKey)
	if err != nil {
		return nil, nil, err
	}
	var source board.ContextSource
	if grounding != nil {
		source = grounding
	}
	return board.NewGenerator(synth, source, cfg.QuizTopic(), cfg.CategoryCount(), cfg.TopK()), client, nil
}

// newSession builds a game session over the generator.
func newSession(cfg *appconfig.Config, generator *board.Generator) *game.Session {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return game.NewSession(generator, game.NewEvaluator(cfg.AnswerMatchCutoff()), cfg.TeamCount(), rng)
}

// newDistractorFunc returns the model-backed option generator for hints.
func newDistractorFunc(client *llm.Client) func(ctx context.Context, clueText, answer string) ([]string, error) {
	return func(ctx context.Context, clueText, answer string) ([]string, error) {
		return board.GenerateDistractors(ctx, client, clueText, answer)
	}
}
