// Package rag grounds board generation in a corpus of course notes: it chunks
// documents along section boundaries, embeds the chunks, and retrieves the
// passages most similar to a query.
package rag

// Chunk is a contiguous section of a source document, the unit of retrieval.
type Chunk struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Length int    `json:"length"`
}

// Result pairs a chunk with its similarity to a query, in [-1, 1].
type Result struct {
	Chunk      Chunk
	Similarity float64
}
