// internal/cli/rag_index.go
package quizdeck

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/starfield-labs/quizdeck/internal/logging"
	"github.com/starfield-labs/quizdeck/internal/rag"
)

// ragIndexCmd chunks and embeds the corpus and writes the JSONL index.
var ragIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the corpus embedding index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if !cfg.RagMode {
			return fmt.Errorf("ragMode is disabled; enable it in the config or pass --ragMode")
		}
		if cfg.RagIndexPath == "" {
			return fmt.Errorf("ragIndexPath is not configured")
		}

		apiKey, err := requireAPIKey(cfg)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return err
		}
		defer logging.Close()

		grounding, err := newGrounding(cfg, apiKey)
		if err != nil {
			return err
		}

		color.Cyan("Indexing corpus at %s...", cfg.RagCorpusPath)
		index, err := grounding.BuildCorpusIndex(context.Background())
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		if err := rag.SaveIndex(cfg.RagIndexPath, index); err != nil {
			return fmt.Errorf("save index: %w", err)
		}

		color.Green("Indexed %d sections -> %s", index.Len(), cfg.RagIndexPath)
		return nil
	},
}

func init() {
	ragCmd.AddCommand(ragIndexCmd)
}
