// internal/cli/board_generate.go
package quizdeck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/starfield-labs/quizdeck/internal/board"
	"github.com/starfield-labs/quizdeck/internal/logging"
)

var boardGenerateJSON bool

// boardGenerateCmd synthesizes one board and prints it, without scoring or
// interaction. Useful for checking a topic or corpus before playing.
var boardGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and print a quiz board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		apiKey, err := requireAPIKey(cfg)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return err
		}
		defer logging.Close()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		color.Cyan("Generating a board about %q...", cfg.QuizTopic())
		generator, _, err := newGenerator(cfg, apiKey)
		if err != nil {
			return err
		}
		result, err := generator.Generate(ctx)
		if err != nil {
			return fmt.Errorf("board generation failed: %w", err)
		}

		if result.Warning != "" {
			color.Yellow("warning: %s", result.Warning)
		}
		color.Green("Board ready: %d categories, %d clues (%d tokens used)",
			len(result.Board.Categories), result.Board.TotalClues(), result.Usage.TotalTokens)

		if cfg.Debug {
			pp.Println(result)
		}

		if boardGenerateJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result.Board)
		}

		printBoard(result)
		return nil
	},
}

// printBoard writes a readable rendition of the board to stdout.
func printBoard(result board.Result) {
	category := color.New(color.FgHiYellow, color.Bold)
	for ci, cat := range result.Board.Categories {
		marker := ""
		if ci == result.GroundedIndex && result.GroundedFromCorpus {
			marker = " (from course notes)"
		}
		category.Printf("\n%s%s\n", cat.Name, marker)
		for _, clue := range cat.Clues {
			fmt.Printf("  $%-5d %s\n", clue.Value, clue.Clue)
			fmt.Printf("         -> %s\n", clue.Answer)
		}
	}
}

func init() {
	boardGenerateCmd.Flags().BoolVar(&boardGenerateJSON, "json", false, "print the board as JSON")
	boardCmd.AddCommand(boardGenerateCmd)
}
