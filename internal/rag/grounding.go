package rag

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starfield-labs/quizdeck/internal/logging"
)

// corpusExtensions are the file types read from the corpus directory.
var corpusExtensions = map[string]struct{}{
	".md":  {},
	".txt": {},
}

// Grounding ties the corpus on disk to the retriever: it loads the course
// notes, keeps the embedding index memoized by content hash, reuses a
// persisted index snapshot when it still matches the corpus, and produces
// sentence-trimmed context blocks for board generation.
type Grounding struct {
	emb        Embedder
	corpusPath string
	indexPath  string
	minChars   int
	cutoff     float64
	cache      IndexCache
}

// NewGrounding builds a Grounding over the corpus directory (or single file).
// indexPath may be empty, in which case the corpus is always embedded fresh.
func NewGrounding(emb Embedder, corpusPath, indexPath string, minChars int, cutoff float64) *Grounding {
	return &Grounding{
		emb:        emb,
		corpusPath: corpusPath,
		indexPath:  indexPath,
		minChars:   minChars,
		cutoff:     cutoff,
	}
}

// CorpusIndex returns the embedding index for the corpus: the in-memory cache
// first, then the persisted index file if it still matches the corpus text,
// and a fresh embedding pass only when both miss.
func (g *Grounding) CorpusIndex(ctx context.Context) (*Index, error) {
	text, err := LoadCorpus(g.corpusPath)
	if err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(text)
	if index := g.cache.Cached(fingerprint); index != nil {
		return index, nil
	}

	if g.indexPath != "" {
		if index, err := LoadIndexFile(g.indexPath); err == nil {
			if index.MatchesCorpus(text, g.minChars) {
				g.cache.Put(fingerprint, index)
				return index, nil
			}
			logging.LogEvent("index file %s no longer matches the corpus; re-embedding", g.indexPath)
		}
	}

	return g.cache.Get(ctx, g.emb, text, g.minChars)
}

// GroundingContext retrieves the topK most relevant sections for the query
// and formats them as a CONTEXT block. Returns ErrNoRelevantContent when the
// best hit is below the cutoff and ErrRetrievalUnavailable when the corpus or
// embedding model cannot be reached.
func (g *Grounding) GroundingContext(ctx context.Context, query string, topK int) (string, error) {
	index, err := g.CorpusIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}

	retriever := NewRetriever(index, g.emb, g.cutoff)
	results, err := retriever.Search(ctx, query, topK)
	if err != nil {
		return "", err
	}
	if !retriever.Relevant(results) {
		return "", ErrNoRelevantContent
	}
	return FormatContext(results), nil
}

// BuildCorpusIndex chunks and embeds the corpus without going through the
// cache. Used by the index command to persist a JSONL snapshot.
func (g *Grounding) BuildCorpusIndex(ctx context.Context) (*Index, error) {
	text, err := LoadCorpus(g.corpusPath)
	if err != nil {
		return nil, err
	}
	return BuildIndex(ctx, g.emb, text, g.minChars)
}

// LoadCorpus reads every markdown/text file under path (or path itself when it
// is a file) and joins them into one document, in stable filename order.
func LoadCorpus(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("corpus path: %w", err)
	}

	if !info.IsDir() {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read corpus file: %w", err)
		}
		return string(raw), nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := corpusExtensions[strings.ToLower(filepath.Ext(p))]; ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk corpus: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no corpus files found under %s", path)
	}
	sort.Strings(files)

	var parts []string
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read corpus file %s: %w", file, err)
		}
		if text := strings.TrimSpace(string(raw)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
