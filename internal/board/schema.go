package board

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError reports a model reply that failed schema or structural
// validation. Synthesis retries on it; anything else aborts immediately.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid board payload: " + e.Reason
}

// categoriesSchema is the JSON Schema for the model's reply envelope. The
// value set and ordering rules are checked structurally afterwards; schema
// validation catches shape and type problems with better messages.
var categoriesSchema = map[string]any{
	"type":                 "object",
	"required":             []string{"categories"},
	"additionalProperties": true,
	"properties": map[string]any{
		"categories": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"name", "clues"},
				"properties": map[string]any{
					"name": map[string]any{"type": "string", "minLength": 1},
					"clues": map[string]any{
						"type":     "array",
						"minItems": CluesPerCategory,
						"maxItems": CluesPerCategory,
						"items": map[string]any{
							"type":     "object",
							"required": []string{"value", "clue", "answer"},
							"properties": map[string]any{
								"value":  map[string]any{"type": "integer"},
								"clue":   map[string]any{"type": "string", "minLength": 1},
								"answer": map[string]any{"type": "string", "minLength": 1},
							},
						},
					},
				},
			},
		},
	},
}

type categoriesEnvelope struct {
	Categories []Category `json:"categories"`
}

// ParseCategories validates a raw model reply against the board schema and
// structural rules, returning the parsed categories. Everything dynamic from
// the model passes through here before entering the domain model.
func ParseCategories(raw string) ([]Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ValidationError{Reason: "empty reply"}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(categoriesSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	if !result.Valid() {
		return nil, &ValidationError{Reason: schemaIssues(result)}
	}

	var envelope categoriesEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("decode: %v", err)}
	}

	for i := range envelope.Categories {
		if err := ValidateCategory(envelope.Categories[i]); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("category %d: %v", i, err)}
		}
	}
	return envelope.Categories, nil
}

// ValidateCategory enforces the rules the schema cannot express: the exact
// ascending value set and non-blank text after trimming.
func ValidateCategory(category Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("name is blank")
	}
	if len(category.Clues) != CluesPerCategory {
		return fmt.Errorf("has %d clues, want %d", len(category.Clues), CluesPerCategory)
	}
	for i, clue := range category.Clues {
		if clue.Value != ClueValues[i] {
			return fmt.Errorf("clue %d has value %d, want %d", i, clue.Value, ClueValues[i])
		}
		if strings.TrimSpace(clue.Clue) == "" {
			return fmt.Errorf("clue %d text is blank", i)
		}
		if strings.TrimSpace(clue.Answer) == "" {
			return fmt.Errorf("clue %d answer is blank", i)
		}
	}
	return nil
}

// ValidateBoard re-checks every category of a merged board. Duplicate category
// names are allowed; the per-category value-set invariant is not negotiable.
func ValidateBoard(b *Board) error {
	if b == nil || len(b.Categories) == 0 {
		return &ValidationError{Reason: "board has no categories"}
	}
	for i, category := range b.Categories {
		if err := ValidateCategory(category); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("category %d: %v", i, err)}
		}
	}
	return nil
}

func schemaIssues(result *gojsonschema.Result) string {
	var issues []string
	for _, issue := range result.Errors() {
		issues = append(issues, issue.String())
	}
	if len(issues) > 3 {
		issues = issues[:3]
	}
	return strings.Join(issues, "; ")
}
