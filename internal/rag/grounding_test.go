package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCorpusFile(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func corpusDoc() string {
	return "intro\n## Section One\n" + strings.Repeat("alpha ", 30) +
		"\n## Section Two\n" + strings.Repeat("beta ", 30)
}

// persistIndex embeds the corpus once and writes the JSONL snapshot.
func persistIndex(t *testing.T, corpusPath, indexPath string) *Index {
	t.Helper()
	emb := &fakeEmbedder{fallbak: []float32{1, 0}}
	builder := NewGrounding(emb, corpusPath, "", 50, 0.2)
	idx, err := builder.BuildCorpusIndex(context.Background())
	if err != nil {
		t.Fatalf("BuildCorpusIndex failed: %v", err)
	}
	if err := SaveIndex(indexPath, idx); err != nil {
		t.Fatalf("SaveIndex failed: %v", err)
	}
	return idx
}

func TestCorpusIndexLoadsPersistedFile(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpusFile(t, dir, corpusDoc())
	indexPath := filepath.Join(dir, "index.jsonl")
	saved := persistIndex(t, corpusPath, indexPath)

	// An embedder that cannot run proves the snapshot serves retrieval.
	emb := &fakeEmbedder{err: errors.New("embedding host down")}
	g := NewGrounding(emb, corpusPath, indexPath, 50, 0.2)

	loaded, err := g.CorpusIndex(context.Background())
	if err != nil {
		t.Fatalf("CorpusIndex failed: %v", err)
	}
	if loaded.Len() != saved.Len() {
		t.Fatalf("expected %d chunks from the snapshot, got %d", saved.Len(), loaded.Len())
	}
	if emb.calls != 0 {
		t.Fatalf("a matching snapshot must not re-embed the corpus, got %d calls", emb.calls)
	}

	// Second request is served from the in-memory cache.
	again, err := g.CorpusIndex(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if again != loaded {
		t.Fatal("unchanged corpus should return the cached index")
	}
}

func TestCorpusIndexRebuildsWhenSnapshotIsStale(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpusFile(t, dir, corpusDoc())
	indexPath := filepath.Join(dir, "index.jsonl")
	persistIndex(t, corpusPath, indexPath)

	// Corpus changes after the snapshot was taken.
	grown := corpusDoc() + "\n## Section Three\n" + strings.Repeat("gamma ", 30)
	writeCorpusFile(t, dir, grown)

	emb := &fakeEmbedder{fallbak: []float32{0, 1}}
	g := NewGrounding(emb, corpusPath, indexPath, 50, 0.2)

	index, err := g.CorpusIndex(context.Background())
	if err != nil {
		t.Fatalf("CorpusIndex failed: %v", err)
	}
	if index.Len() != 3 {
		t.Fatalf("stale snapshot must be rebuilt from the corpus, got %d chunks", index.Len())
	}
	if emb.calls == 0 {
		t.Fatal("rebuilding requires embedding the changed corpus")
	}
}

func TestCorpusIndexIgnoresMissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpusFile(t, dir, corpusDoc())

	emb := &fakeEmbedder{fallbak: []float32{1, 0}}
	g := NewGrounding(emb, corpusPath, filepath.Join(dir, "absent.jsonl"), 50, 0.2)

	index, err := g.CorpusIndex(context.Background())
	if err != nil {
		t.Fatalf("CorpusIndex failed: %v", err)
	}
	if index.Len() != 2 {
		t.Fatalf("expected a fresh 2-chunk index, got %d", index.Len())
	}
}

func TestGroundingContextUsesPersistedIndex(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpusFile(t, dir, corpusDoc())
	indexPath := filepath.Join(dir, "index.jsonl")
	persistIndex(t, corpusPath, indexPath)

	emb := &fakeEmbedder{fallbak: []float32{1, 0}}
	g := NewGrounding(emb, corpusPath, indexPath, 50, 0.2)

	contextBlock, err := g.GroundingContext(context.Background(), "alpha facts", 2)
	if err != nil {
		t.Fatalf("GroundingContext failed: %v", err)
	}
	if !strings.Contains(contextBlock, "[section:") {
		t.Fatalf("context block missing section tags: %q", contextBlock)
	}
	// Only the query is embedded; the chunk vectors come from the snapshot.
	if emb.calls != 1 {
		t.Fatalf("expected exactly 1 embedding call for the query, got %d", emb.calls)
	}
}
