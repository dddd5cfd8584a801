package rag

import "strings"

// sectionDelimiter marks the start of a main section in the course notes.
const sectionDelimiter = "\n## "

// ChunkSections splits a document into one chunk per "## " section. The
// delimiter is re-attached to every segment except the leading front matter,
// and segments whose trimmed length is at or below minChars are dropped.
// Chunk IDs are the segment positions before filtering, so they stay stable
// when noise sections are removed.
func ChunkSections(text string, minChars int) []Chunk {
	if minChars < 0 {
		minChars = 0
	}

	segments := strings.Split(text, sectionDelimiter)

	var chunks []Chunk
	for i, segment := range segments {
		chunkText := segment
		if i > 0 {
			chunkText = "## " + segment
		}
		trimmed := strings.TrimSpace(chunkText)
		if len(trimmed) <= minChars {
			continue
		}
		chunks = append(chunks, Chunk{
			ID:     i,
			Text:   trimmed,
			Length: len(chunkText),
		})
	}
	return chunks
}
