package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/starfield-labs/quizdeck/internal/llm"
	"github.com/starfield-labs/quizdeck/internal/logging"
	"github.com/starfield-labs/quizdeck/internal/rag"
)

// ContextSource produces a grounding context block for a query, or
// rag.ErrNoRelevantContent / rag.ErrRetrievalUnavailable when it cannot.
type ContextSource interface {
	GroundingContext(ctx context.Context, query string, topK int) (string, error)
}

// Result is a validated board plus generation telemetry.
type Result struct {
	Board *Board
	Usage llm.Usage
	// GroundedIndex is the position of the corpus-grounded category.
	GroundedIndex int
	// GroundedFromCorpus is false when retrieval fell back to general
	// knowledge; Warning then explains why.
	GroundedFromCorpus bool
	Warning            string
}

// Generator orchestrates the synthesizer across the general-knowledge
// categories plus the single grounded category and re-validates the merged
// board. With a fixed model reply the operation is idempotent; all
// nondeterminism comes from the model.
type Generator struct {
	synth      *Synthesizer
	source     ContextSource
	topic      string
	categories int
	topK       int
}

// NewGenerator builds a board generator. source may be nil, which disables
// grounding entirely (the grounded slot becomes a plain topic category).
func NewGenerator(synth *Synthesizer, source ContextSource, topic string, categories, topK int) *Generator {
	return &Generator{
		synth:      synth,
		source:     source,
		topic:      topic,
		categories: categories,
		topK:       topK,
	}
}

// Generate produces one complete validated board or an error; a partially
// valid board is never returned.
func (g *Generator) Generate(ctx context.Context) (Result, error) {
	categories, usage, err := g.synth.Categories(ctx, g.categories)
	if err != nil {
		return Result{Usage: usage}, err
	}

	contextBlock, warning := g.groundingContext(ctx)

	var grounded Category
	var groundedUsage llm.Usage
	if contextBlock != "" {
		grounded, groundedUsage, err = g.synth.GroundedCategory(ctx, contextBlock)
	} else {
		// Fallback: one more general-knowledge category fills the grounded slot.
		var extra []Category
		extra, groundedUsage, err = g.synth.Categories(ctx, 1)
		if err == nil {
			grounded = extra[0]
		}
	}
	usage = usage.Add(groundedUsage)
	if err != nil {
		return Result{Usage: usage}, err
	}

	merged := &Board{Categories: append(categories, grounded)}
	if err := ValidateBoard(merged); err != nil {
		return Result{Usage: usage}, err
	}

	return Result{
		Board:              merged,
		Usage:              usage,
		GroundedIndex:      len(merged.Categories) - 1,
		GroundedFromCorpus: contextBlock != "",
		Warning:            warning,
	}, nil
}

// groundingContext retrieves course-note context for the topic. Retrieval
// problems never fail board generation; they degrade it to general knowledge
// with a warning.
func (g *Generator) groundingContext(ctx context.Context) (contextBlock, warning string) {
	if g.source == nil {
		return "", ""
	}

	query := fmt.Sprintf("key concepts, definitions and facts about %s", g.topic)
	contextBlock, err := g.source.GroundingContext(ctx, query, g.topK)
	switch {
	case err == nil:
		return contextBlock, ""
	case errors.Is(err, rag.ErrNoRelevantContent):
		logging.LogEvent("grounding skipped: %v", err)
		return "", "course notes had no relevant content; grounded category generated from general knowledge"
	default:
		logging.LogEvent("grounding unavailable: %v", err)
		return "", "retrieval unavailable; grounded category generated from general knowledge"
	}
}
