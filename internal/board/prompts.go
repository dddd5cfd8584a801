package board

import (
	"fmt"
	"strings"
)

const jsonShapeHint = `Return ONLY a JSON object with this structure:
{"categories": [
  {"name": "Category Name", "clues": [
    {"value": 200, "clue": "text", "answer": "text"},
    ...
  ]}
]}`

// boardSystemPrompt instructs the model to produce the general-knowledge
// categories. Wording variation is demanded so repeated games differ.
func boardSystemPrompt(topic string, categoryCount int) string {
	return fmt.Sprintf(
		"You are generating Jeopardy-style questions for an introductory %s class. "+
			"Every time you are called, you MUST vary the specific wording of clues and, when reasonable, "+
			"the specific facts used, so that repeated calls do NOT return an identical board.\n\n"+
			"%s\n\n"+
			"Requirements (must follow these exactly):\n"+
			"- %d categories.\n"+
			"- Each category must have exactly %d clues.\n"+
			"- Use increasing values: %s.\n"+
			"- All content must be about %s.\n"+
			"- Do NOT include any explanation outside the JSON.\n"+
			"- Do NOT reuse exactly the same text or exact same set of clues across different calls; "+
			"pretend you are sampling from a large bank of possible clues.",
		topic, jsonShapeHint, categoryCount, CluesPerCategory, valueList(), topic)
}

// groundedSystemPrompt instructs the model to produce one category whose clues
// are answerable from the supplied CONTEXT alone.
func groundedSystemPrompt(topic string) string {
	return fmt.Sprintf(
		"You are generating Jeopardy-style questions for an introductory %s class. "+
			"A CONTEXT block of course notes follows the request. Every clue you write MUST be "+
			"answerable from the CONTEXT alone; do not rely on outside knowledge.\n\n"+
			"%s\n\n"+
			"Requirements (must follow these exactly):\n"+
			"- Exactly 1 category, named after the main theme of the CONTEXT.\n"+
			"- The category must have exactly %d clues.\n"+
			"- Use increasing values: %s.\n"+
			"- Do NOT include any explanation outside the JSON.",
		topic, jsonShapeHint, CluesPerCategory, valueList())
}

// boardUserPrompt carries a random run ID to discourage proxy-side response
// caching between games.
func boardUserPrompt(runID int64) string {
	return fmt.Sprintf(
		"Generate the game board JSON now. Use different wording and examples than previous runs. run_id=%d",
		runID)
}

func groundedUserPrompt(contextBlock string, runID int64) string {
	return fmt.Sprintf("%s\n\nGenerate the category JSON now. run_id=%d", contextBlock, runID)
}

// distractorSystemPrompt asks for plausible wrong options for one clue.
func distractorSystemPrompt() string {
	return "You are helping generate wrong answer choices for a Jeopardy-style game. " +
		`Return ONLY a JSON object like this: {"distractors": ["answer1", "answer2", "answer3"]}`
}

func distractorUserPrompt(clueText, answer string) string {
	return fmt.Sprintf(
		"Clue: %s\nCorrect answer: %s\n\n"+
			"Generate exactly 3 plausible but incorrect answers that:\n"+
			"- Are in the same subject area as the correct answer\n"+
			"- Could believably fool someone who doesn't know the topic well\n"+
			"- Are clearly wrong to someone who does know the topic\n"+
			"- Are similar in format and length to the correct answer",
		clueText, answer)
}

func valueList() string {
	parts := make([]string, len(ClueValues))
	for i, value := range ClueValues {
		parts[i] = fmt.Sprintf("%d", value)
	}
	return strings.Join(parts, ", ")
}
