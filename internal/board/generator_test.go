package board

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starfield-labs/quizdeck/internal/llm"
	"github.com/starfield-labs/quizdeck/internal/rag"
)

// fakeGenerator replays scripted replies in order.
type fakeGenerator struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, system, user string) (string, llm.Usage, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, system+"\n"+user)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", llm.Usage{}, f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
	}
	return "", llm.Usage{}, errors.New("no scripted reply")
}

type fakeSource struct {
	context string
	err     error
}

func (f *fakeSource) GroundingContext(context.Context, string, int) (string, error) {
	return f.context, f.err
}

func fourCategories(t *testing.T) string {
	return marshalEnvelope(t,
		validCategory("Planets"), validCategory("Stars"),
		validCategory("Moons"), validCategory("Telescopes"))
}

func TestSynthesizerRetriesInvalidReplies(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"not json", fourCategories(t)}}
	synth := NewSynthesizer(gen, "astronomy", 3)

	categories, usage, err := synth.Categories(context.Background(), 4)
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(categories))
	}
	if gen.calls != 2 {
		t.Fatalf("expected 2 generation calls, got %d", gen.calls)
	}
	if usage.TotalTokens != 30 {
		t.Fatalf("usage should accumulate across attempts, got %d", usage.TotalTokens)
	}
}

func TestSynthesizerExhaustsAttempts(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"bad", "bad", "bad"}}
	synth := NewSynthesizer(gen, "astronomy", 3)

	_, _, err := synth.Categories(context.Background(), 4)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError after exhausting attempts, got %v", err)
	}
	if gen.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", gen.calls)
	}
}

func TestGenerateMergesGroundedCategory(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		fourCategories(t),
		marshalEnvelope(t, validCategory("From The Notes")),
	}}
	source := &fakeSource{context: "CONTEXT\n[section:1] The Moon orbits Earth."}
	g := NewGenerator(NewSynthesizer(gen, "astronomy", 3), source, "astronomy", 4, 3)

	result, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got := len(result.Board.Categories); got != 5 {
		t.Fatalf("expected 5 categories, got %d", got)
	}
	if result.GroundedIndex != 4 {
		t.Fatalf("expected grounded index 4, got %d", result.GroundedIndex)
	}
	if !result.GroundedFromCorpus || result.Warning != "" {
		t.Fatalf("expected corpus grounding with no warning, got %+v", result)
	}
	if result.Board.Categories[4].Name != "From The Notes" {
		t.Fatalf("grounded category misplaced: %q", result.Board.Categories[4].Name)
	}
	if !strings.Contains(gen.prompts[1], "CONTEXT") {
		t.Fatal("grounded prompt should carry the context block")
	}
	if result.Board.TotalClues() != 25 {
		t.Fatalf("expected 25 clues, got %d", result.Board.TotalClues())
	}
}

func TestGenerateFallsBackWhenNoRelevantContent(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		fourCategories(t),
		marshalEnvelope(t, validCategory("General Knowledge")),
	}}
	source := &fakeSource{err: rag.ErrNoRelevantContent}
	g := NewGenerator(NewSynthesizer(gen, "astronomy", 3), source, "astronomy", 4, 3)

	result, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("fallback should not fail generation: %v", err)
	}
	if result.GroundedFromCorpus {
		t.Fatal("fallback board must not claim corpus grounding")
	}
	if result.Warning == "" {
		t.Fatal("fallback must surface a warning")
	}
	if len(result.Board.Categories) != 5 {
		t.Fatalf("fallback board must still be complete, got %d categories", len(result.Board.Categories))
	}
}

func TestGenerateFallsBackWhenRetrievalUnavailable(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		fourCategories(t),
		marshalEnvelope(t, validCategory("General Knowledge")),
	}}
	source := &fakeSource{err: rag.ErrRetrievalUnavailable}
	g := NewGenerator(NewSynthesizer(gen, "astronomy", 3), source, "astronomy", 4, 3)

	result, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("retrieval failure should degrade, not crash: %v", err)
	}
	if result.GroundedFromCorpus || result.Warning == "" {
		t.Fatalf("expected warned fallback, got %+v", result)
	}
}

func TestGenerateNeverReturnsPartialBoard(t *testing.T) {
	// Category synthesis succeeds, grounded synthesis stays invalid.
	gen := &fakeGenerator{replies: []string{fourCategories(t), "bad", "bad", "bad"}}
	source := &fakeSource{context: "CONTEXT\n[section:1] Notes."}
	g := NewGenerator(NewSynthesizer(gen, "astronomy", 3), source, "astronomy", 4, 3)

	result, err := g.Generate(context.Background())
	if err == nil {
		t.Fatal("expected generation to fail")
	}
	if result.Board != nil {
		t.Fatal("a failed generation must not expose a partial board")
	}
}

func TestGenerateDistractors(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"distractors": ["Venus", "Mercury", "Jupiter"]}`}}
	distractors, err := GenerateDistractors(context.Background(), gen, "Red planet", "Mars")
	if err != nil {
		t.Fatalf("GenerateDistractors failed: %v", err)
	}
	if len(distractors) != 3 || distractors[0] != "Venus" {
		t.Fatalf("unexpected distractors: %v", distractors)
	}
}

func TestGenerateDistractorsRejectsWrongShape(t *testing.T) {
	cases := []string{
		`{"distractors": ["only", "two"]}`,
		`{"distractors": ["a", "b", " "]}`,
		`{"options": ["a", "b", "c"]}`,
		`nonsense`,
	}
	for _, raw := range cases {
		gen := &fakeGenerator{replies: []string{raw}}
		if _, err := GenerateDistractors(context.Background(), gen, "clue", "answer"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
