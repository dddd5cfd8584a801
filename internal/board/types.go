// Package board synthesizes and validates quiz boards. A board is a set of
// categories, each holding five clues at fixed ascending dollar values; one
// category is grounded in the course-notes corpus when retrieval succeeds.
package board

// ClueValues is the canonical ascending value set for every category.
var ClueValues = []int{200, 400, 600, 800, 1000}

// CluesPerCategory is the required number of clues in every category.
const CluesPerCategory = 5

// Clue is a single question cell on the board.
type Clue struct {
	Value  int    `json:"value"`
	Clue   string `json:"clue"`
	Answer string `json:"answer"`
}

// Category is a named column of clues with distinct ascending values.
type Category struct {
	Name  string `json:"name"`
	Clues []Clue `json:"clues"`
}

// Board is a full validated game board. It is immutable after generation;
// a new game replaces it wholesale.
type Board struct {
	Categories []Category `json:"categories"`
}

// TotalClues returns the number of playable cells on the board.
func (b *Board) TotalClues() int {
	total := 0
	for _, category := range b.Categories {
		total += len(category.Clues)
	}
	return total
}

// Answers returns every answer on the board except the one at the given
// category/clue position. Used for sampling multiple-choice distractors.
func (b *Board) Answers(exceptCategory, exceptClue int) []string {
	var answers []string
	for ci, category := range b.Categories {
		for qi, clue := range category.Clues {
			if ci == exceptCategory && qi == exceptClue {
				continue
			}
			if clue.Answer != "" {
				answers = append(answers, clue.Answer)
			}
		}
	}
	return answers
}
