// internal/cli/show_config.go
package quizdeck

import (
	"fmt"

	"github.com/spf13/cobra"
)

// showConfigCmd prints the merged configuration after flag overrides.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		fmt.Printf("Config file: %s\n\n", cfg.ConfigPath)

		fmt.Println("Current configuration:")
		fmt.Printf("  API Base:         %s\n", cfg.APIBase)
		fmt.Printf("  API Key:          %s\n", describeAPIKey(cfg.APIKey()))
		fmt.Printf("  Chat Model:       %s\n", cfg.ChatModel)
		fmt.Printf("  Topic:            %s\n", cfg.QuizTopic())
		fmt.Printf("  Teams:            %d\n", cfg.TeamCount())
		fmt.Printf("  Categories:       %d\n", cfg.CategoryCount())
		fmt.Printf("  Board Attempts:   %d\n", cfg.SynthesisAttempts())
		fmt.Printf("  Answer Cutoff:    %.2f\n", cfg.AnswerMatchCutoff())
		fmt.Printf("  Request Timeout:  %s\n", cfg.RequestTimeout())
		fmt.Printf("  Debug:            %v\n", cfg.Debug)
		fmt.Printf("  Log File:         %s\n", cfg.LogFilePath())
		fmt.Printf("  RAG Mode:         %v\n", cfg.RagMode)
		if cfg.RagMode {
			fmt.Printf("  RAG Corpus Path:  %s\n", cfg.RagCorpusPath)
			fmt.Printf("  RAG Index Path:   %s\n", cfg.RagIndexPath)
			fmt.Printf("  Embedding Model:  %s\n", cfg.EmbeddingModel)
			fmt.Printf("  RAG Top K:        %d\n", cfg.TopK())
			fmt.Printf("  Min Chunk Chars:  %d\n", cfg.MinChunkChars())
			fmt.Printf("  Relevance Cutoff: %.2f\n", cfg.RelevanceCutoff())
		}
	},
}

// describeAPIKey reports whether the key is present without printing it.
func describeAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return "(set)"
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
