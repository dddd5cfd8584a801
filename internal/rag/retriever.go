package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrRetrievalUnavailable reports that embedding or similarity search failed.
// Callers decide whether to fall back or abort; the retriever never silently
// returns empty results.
var ErrRetrievalUnavailable = errors.New("retrieval unavailable")

// ErrNoRelevantContent reports that retrieval worked but nothing in the corpus
// was similar enough to the query. A defined outcome, not a failure.
var ErrNoRelevantContent = errors.New("no relevant content in corpus")

// Retriever answers similarity queries against an in-memory index. The scan is
// O(N·D) per query, which is fine for tens of chunks; swap the index behind
// this type if a corpus ever outgrows a linear scan.
type Retriever struct {
	index  *Index
	emb    Embedder
	cutoff float64
}

// NewRetriever wires an index to an embedder. cutoff is the minimum best-hit
// similarity below which Relevant rejects the result set.
func NewRetriever(index *Index, emb Embedder, cutoff float64) *Retriever {
	return &Retriever{index: index, emb: emb, cutoff: cutoff}
}

// Search embeds the query and returns the topK most similar chunks in
// descending similarity order. Ties keep the original chunk order.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrRetrievalUnavailable)
	}
	if r.index == nil || r.index.Len() == 0 {
		return nil, fmt.Errorf("%w: index is empty", ErrRetrievalUnavailable)
	}

	queryVec, err := r.emb.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %w", ErrRetrievalUnavailable, err)
	}

	results := make([]Result, 0, r.index.Len())
	for i, chunk := range r.index.Chunks {
		vector := r.index.Vectors[i]
		if len(vector) != len(queryVec) {
			continue
		}
		results = append(results, Result{
			Chunk:      chunk,
			Similarity: similarity(queryVec, vector),
		})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no chunks match the query dimensionality", ErrRetrievalUnavailable)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if topK <= 0 {
		topK = 4
	}
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Relevant reports whether the result set is worth using: the best hit must
// clear the configured similarity cutoff.
func (r *Retriever) Relevant(results []Result) bool {
	return len(results) > 0 && results[0].Similarity >= r.cutoff
}

// similarity is the cosine of the angle between a and b. Vectors are expected
// unit-norm, in which case this is a plain dot product; when either norm
// drifts it falls back to the full cosine computation.
func similarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	if unitNorm(normA) && unitNorm(normB) {
		return dot
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// unitNorm reports whether a squared norm is close enough to 1 to skip the
// cosine denominator.
func unitNorm(squared float64) bool {
	return math.Abs(squared-1) < 1e-3
}
