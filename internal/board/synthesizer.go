package board

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/starfield-labs/quizdeck/internal/llm"
)

// Synthesizer turns generation requests into validated categories. Invalid
// model replies are retried with fresh samples up to the attempt budget; a
// malformed category is never returned.
type Synthesizer struct {
	gen      llm.Generator
	topic    string
	attempts int
	runID    func() int64
}

// NewSynthesizer builds a Synthesizer for the given topic. attempts is the
// per-request retry budget for validation failures.
func NewSynthesizer(gen llm.Generator, topic string, attempts int) *Synthesizer {
	return &Synthesizer{
		gen:      gen,
		topic:    topic,
		attempts: attempts,
		runID:    func() int64 { return rand.Int63n(1_000_000_000) },
	}
}

// Categories generates count general-knowledge categories.
func (s *Synthesizer) Categories(ctx context.Context, count int) ([]Category, llm.Usage, error) {
	var categories []Category
	var usage llm.Usage

	err := llm.Retry(s.attempts, func(int) error {
		raw, u, err := s.gen.GenerateJSON(ctx, boardSystemPrompt(s.topic, count), boardUserPrompt(s.runID()))
		usage = usage.Add(u)
		if err != nil {
			return err
		}
		parsed, err := ParseCategories(raw)
		if err != nil {
			return err
		}
		if len(parsed) != count {
			return &ValidationError{Reason: fmt.Sprintf("got %d categories, want %d", len(parsed), count)}
		}
		categories = parsed
		return nil
	})
	if err != nil {
		return nil, usage, fmt.Errorf("synthesize categories: %w", err)
	}
	return categories, usage, nil
}

// GroundedCategory generates one category whose clues are grounded in the
// supplied context block of retrieved course notes.
func (s *Synthesizer) GroundedCategory(ctx context.Context, contextBlock string) (Category, llm.Usage, error) {
	var category Category
	var usage llm.Usage

	err := llm.Retry(s.attempts, func(int) error {
		raw, u, err := s.gen.GenerateJSON(ctx, groundedSystemPrompt(s.topic), groundedUserPrompt(contextBlock, s.runID()))
		usage = usage.Add(u)
		if err != nil {
			return err
		}
		parsed, err := ParseCategories(raw)
		if err != nil {
			return err
		}
		if len(parsed) != 1 {
			return &ValidationError{Reason: fmt.Sprintf("got %d categories, want 1", len(parsed))}
		}
		category = parsed[0]
		return nil
	})
	if err != nil {
		return Category{}, usage, fmt.Errorf("synthesize grounded category: %w", err)
	}
	return category, usage, nil
}
