// Package game owns one interactive quiz session: the board, scores, the
// answered set, the active clue, and the rules for judging free-text answers.
package game

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultPrefixes are the Jeopardy-style phrasings stripped from the front of
// an answer before comparison.
var DefaultPrefixes = []string{
	"what is ", "what's ", "whats ",
	"who is ", "who's ", "whos ",
	"where is ", "where's ", "wheres ",
	"what are ", "who are ",
}

// DefaultArticles are the leading articles stripped after prefix removal.
var DefaultArticles = []string{"the ", "a ", "an "}

// Evaluator decides whether a free-text answer matches a reference answer.
// It never fails; an unmatchable input is simply incorrect.
type Evaluator struct {
	// Cutoff is the minimum similarity ratio for a fuzzy match, in (0, 1].
	Cutoff   float64
	Prefixes []string
	Articles []string
}

// NewEvaluator returns an Evaluator with the default prefix and article lists.
func NewEvaluator(cutoff float64) *Evaluator {
	return &Evaluator{
		Cutoff:   cutoff,
		Prefixes: DefaultPrefixes,
		Articles: DefaultArticles,
	}
}

// Normalize lowercases the text, strips one leading Jeopardy prefix, one
// leading article, and surrounding punctuation, so "What is Mars?" and "mars"
// compare equal.
func (e *Evaluator) Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))

	for _, prefix := range e.Prefixes {
		if strings.HasPrefix(t, prefix) {
			t = t[len(prefix):]
			break
		}
	}
	for _, article := range e.Articles {
		if strings.HasPrefix(t, article) {
			t = t[len(article):]
			break
		}
	}

	return strings.Trim(t, " .!?\"'")
}

// IsCorrect reports whether the user's answer matches the reference after
// normalization, tolerating small typos via a bounded similarity ratio.
func (e *Evaluator) IsCorrect(userText, referenceText string) bool {
	user := e.Normalize(userText)
	reference := e.Normalize(referenceText)

	if user == "" {
		return false
	}
	if user == reference {
		return true
	}
	return similarityRatio(user, reference) >= e.Cutoff
}

// similarityRatio maps edit distance onto [0, 1], where 1 is an exact match.
func similarityRatio(a, b string) float64 {
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}
