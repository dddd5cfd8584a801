package rag

import (
	"strings"
	"testing"
)

func TestTrimToSentence(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"One sentence. Trailing fragment without", "One sentence."},
		{"Ends cleanly already.", "Ends cleanly already."},
		{"Question? Then a dangling half", "Question?"},
		{"no terminator at all", "no terminator at all"},
		{"  padded. tail ", "padded."},
		{"The moon formed approx 4.5 billion years ago", "The moon formed approx 4.5 billion years ago"},
		{"First point. Density is about 3.5", "First point."},
		{"Version 2.0 shipped! Then a trailing frag", "Version 2.0 shipped!"},
	}
	for _, c := range cases {
		if got := TrimToSentence(c.in); got != c.want {
			t.Fatalf("TrimToSentence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatContext(t *testing.T) {
	results := []Result{
		{Chunk: Chunk{ID: 3, Text: "## Stars\nA star fuses hydrogen. Partial thou"}, Similarity: 0.9},
		{Chunk: Chunk{ID: 7, Text: "## Comets\nComets are icy bodies."}, Similarity: 0.5},
	}

	got := FormatContext(results)
	if !strings.HasPrefix(got, "CONTEXT\n") {
		t.Fatalf("context block missing header: %q", got)
	}
	if strings.Contains(got, "Partial thou") {
		t.Fatalf("context must end on a sentence boundary: %q", got)
	}
	if !strings.Contains(got, "[section:3]") || !strings.Contains(got, "[section:7]") {
		t.Fatalf("context missing section tags: %q", got)
	}
}

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}
