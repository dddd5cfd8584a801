package game

import "testing"

func TestNormalize(t *testing.T) {
	eval := NewEvaluator(0.8)

	cases := []struct {
		in   string
		want string
	}{
		{"What is Mars?", "mars"},
		{"what's the supernova", "supernova"},
		{"Who is A. Einstein!", "a. einstein"},
		{"Where's an observatory", "observatory"},
		{"  The Moon.  ", "moon"},
		{"\"Jupiter\"", "jupiter"},
		{"mars", "mars"},
		{"", ""},
		{"   ", ""},
		// Only one prefix and one article are stripped.
		{"what is what is mars", "what is mars"},
		{"the the moon", "the moon"},
	}
	for _, c := range cases {
		if got := eval.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsCorrectExactAfterNormalization(t *testing.T) {
	eval := NewEvaluator(0.8)

	if !eval.IsCorrect("What is Mars?", "Mars") {
		t.Error("prefixed answer should match")
	}
	if !eval.IsCorrect("mars", "The Mars") {
		t.Error("reference article should be stripped too")
	}
	if !eval.IsCorrect("  SUPERNOVA!  ", "supernova") {
		t.Error("case and punctuation should not matter")
	}
}

func TestIsCorrectToleratesSmallTypos(t *testing.T) {
	eval := NewEvaluator(0.8)

	if !eval.IsCorrect("the suprnova", "supernova") {
		t.Error("one dropped letter should still match")
	}
	if !eval.IsCorrect("What is Jupitar?", "Jupiter") {
		t.Error("one substituted letter should still match")
	}
}

func TestIsCorrectRejectsDifferentAnswers(t *testing.T) {
	eval := NewEvaluator(0.8)

	if eval.IsCorrect("comet", "supernova") {
		t.Error("unrelated answer must not match")
	}
	if eval.IsCorrect("mars", "venus") {
		t.Error("different planet must not match")
	}
}

func TestIsCorrectRejectsEmptyInput(t *testing.T) {
	eval := NewEvaluator(0.8)

	for _, in := range []string{"", "   ", "what is ", "the", "?"} {
		if eval.IsCorrect(in, "supernova") {
			t.Errorf("input %q normalizes to nothing and must not match", in)
		}
	}
}

func TestCutoffIsConfigurable(t *testing.T) {
	strict := NewEvaluator(1.0)
	if strict.IsCorrect("suprnova", "supernova") {
		t.Error("cutoff 1.0 must require an exact match")
	}

	loose := NewEvaluator(0.5)
	if !loose.IsCorrect("supernovae", "supernova") {
		t.Error("cutoff 0.5 should accept a close variant")
	}
}

func TestSimilarityRatio(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"supernova", "supernova", 1.0},
		{"", "", 0.0},
		{"abcd", "wxyz", 0.0},
	}
	for _, c := range cases {
		if got := similarityRatio(c.a, c.b); got != c.want {
			t.Errorf("similarityRatio(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}

	// 1 edit over 9 runes.
	if got := similarityRatio("suprnova", "supernova"); got < 0.88 || got > 0.89 {
		t.Errorf("similarityRatio(suprnova, supernova) = %v, want ~0.888", got)
	}
}
