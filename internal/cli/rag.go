// internal/cli/rag.go
package quizdeck

import "github.com/spf13/cobra"

// ragCmd groups corpus and retrieval utilities.
var ragCmd = &cobra.Command{
	Use:   "rag",
	Short: "Corpus retrieval utilities",
}

func init() {
	rootCmd.AddCommand(ragCmd)
}
