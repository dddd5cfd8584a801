// internal/cli/board.go
package quizdeck

import "github.com/spf13/cobra"

// boardCmd represents the 'board' command group.
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Group commands for working with quiz boards",
	Long:  `The 'board' command groups subcommands that generate and inspect quiz boards without starting a game.`,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
