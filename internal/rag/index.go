package rag

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Index holds chunk embeddings for one document corpus. chunk[i] ↔ vector[i].
type Index struct {
	Chunks  []Chunk
	Vectors [][]float32
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int { return len(idx.Chunks) }

// BuildIndex chunks the document and embeds every chunk. Any embedding failure
// aborts the build; a partially embedded index is never returned.
func BuildIndex(ctx context.Context, emb Embedder, text string, minChars int) (*Index, error) {
	chunks := ChunkSections(text, minChars)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document produced no chunks above %d chars", minChars)
	}

	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := emb.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", chunk.ID, err)
		}
		vectors = append(vectors, vector)
	}

	return &Index{Chunks: chunks, Vectors: vectors}, nil
}

// IndexCache memoizes index construction keyed by a content hash of the
// corpus, so unchanged source text is never re-embedded.
type IndexCache struct {
	mu          sync.Mutex
	fingerprint string
	index       *Index
}

// Get returns the cached index when the corpus content is unchanged, and
// rebuilds it otherwise.
func (c *IndexCache) Get(ctx context.Context, emb Embedder, text string, minChars int) (*Index, error) {
	fingerprint := Fingerprint(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index != nil && c.fingerprint == fingerprint {
		return c.index, nil
	}

	index, err := BuildIndex(ctx, emb, text, minChars)
	if err != nil {
		return nil, err
	}
	c.fingerprint = fingerprint
	c.index = index
	return index, nil
}

// Cached returns the memoized index for the fingerprint, or nil on a miss.
func (c *IndexCache) Cached(fingerprint string) *Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index != nil && c.fingerprint == fingerprint {
		return c.index
	}
	return nil
}

// Put adopts an index built elsewhere, typically one loaded from disk.
func (c *IndexCache) Put(fingerprint string, idx *Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fingerprint = fingerprint
	c.index = idx
}

// MatchesCorpus reports whether the index was built from this corpus text:
// chunking the text again must yield the same IDs and texts. Validates a
// persisted index before its vectors are trusted.
func (idx *Index) MatchesCorpus(text string, minChars int) bool {
	chunks := ChunkSections(text, minChars)
	if len(chunks) != len(idx.Chunks) {
		return false
	}
	for i, chunk := range chunks {
		if chunk.ID != idx.Chunks[i].ID || chunk.Text != idx.Chunks[i].Text {
			return false
		}
	}
	return true
}

// Fingerprint returns a stable identity for a corpus version.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// indexEntry is a single JSONL record in a persisted index file.
type indexEntry struct {
	ChunkID   int       `json:"chunk_id"`
	Text      string    `json:"text"`
	Length    int       `json:"length"`
	Embedding []float32 `json:"embedding"`
}

// SaveIndex writes the index as JSONL, one chunk per line.
func SaveIndex(path string, idx *Index) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	for i, chunk := range idx.Chunks {
		entry := indexEntry{
			ChunkID:   chunk.ID,
			Text:      chunk.Text,
			Length:    chunk.Length,
			Embedding: idx.Vectors[i],
		}
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("write index entry: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return nil
}

// LoadIndexFile reads a JSONL index written by SaveIndex.
func LoadIndexFile(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	idx := &Index{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry indexEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("parse index line %d: %w", lineNo, err)
		}
		idx.Chunks = append(idx.Chunks, Chunk{ID: entry.ChunkID, Text: entry.Text, Length: entry.Length})
		idx.Vectors = append(idx.Vectors, entry.Embedding)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if idx.Len() == 0 {
		return nil, fmt.Errorf("index %s contains no entries", path)
	}
	return idx, nil
}
