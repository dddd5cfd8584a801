package rag

import (
	"fmt"
	"strings"
)

// TrimToSentence cuts text back to its last complete sentence so prompts never
// end mid-sentence. A terminator only counts when it ends the text or is
// followed by whitespace, so decimals like "3.5" never split a sentence.
// Abbreviations ("approx. value") still read as sentence ends. Text without
// any sentence terminator is returned whole.
func TrimToSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	for i := len(trimmed) - 1; i >= 0; i-- {
		switch trimmed[i] {
		case '.', '!', '?':
		default:
			continue
		}
		if i == len(trimmed)-1 || isSpace(trimmed[i+1]) {
			return strings.TrimSpace(trimmed[:i+1])
		}
	}
	return trimmed
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// FormatContext assembles retrieved chunks into the CONTEXT block handed to
// the model, one sentence-trimmed chunk per line.
func FormatContext(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("CONTEXT\n")
	for _, result := range results {
		text := TrimToSentence(result.Chunk.Text)
		if text == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("[section:%d] %s\n", result.Chunk.ID, text))
	}
	return strings.TrimRight(b.String(), "\n")
}
