package board

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starfield-labs/quizdeck/internal/llm"
)

// distractorCount is how many wrong options accompany the correct answer in
// multiple-choice presentation.
const distractorCount = 3

type distractorEnvelope struct {
	Distractors []string `json:"distractors"`
}

// GenerateDistractors asks the model for three plausible-but-wrong options for
// one clue. Callers fall back to sampling other board answers when this fails;
// the game never blocks on it.
func GenerateDistractors(ctx context.Context, gen llm.Generator, clueText, answer string) ([]string, error) {
	raw, _, err := gen.GenerateJSON(ctx, distractorSystemPrompt(), distractorUserPrompt(clueText, answer))
	if err != nil {
		return nil, fmt.Errorf("generate distractors: %w", err)
	}

	var envelope distractorEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("parse distractors: %w", err)
	}
	if len(envelope.Distractors) != distractorCount {
		return nil, fmt.Errorf("got %d distractors, want %d", len(envelope.Distractors), distractorCount)
	}
	for i, distractor := range envelope.Distractors {
		if strings.TrimSpace(distractor) == "" {
			return nil, fmt.Errorf("distractor %d is blank", i)
		}
	}
	return envelope.Distractors, nil
}
