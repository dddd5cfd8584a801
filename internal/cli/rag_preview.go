// internal/cli/rag_preview.go
package quizdeck

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/starfield-labs/quizdeck/internal/logging"
	"github.com/starfield-labs/quizdeck/internal/rag"
)

// ragPreviewCmd previews retrieval and context assembly for a query.
var ragPreviewCmd = &cobra.Command{
	Use:   "preview <query>",
	Short: "Preview corpus retrieval and context assembly",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("query is required")
		}

		cfg := GetConfig()
		if !cfg.RagMode {
			return fmt.Errorf("ragMode is disabled; enable it in the config or pass --ragMode")
		}

		apiKey, err := requireAPIKey(cfg)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return err
		}
		defer logging.Close()

		logging.LogEvent("[RAG] preview query: %s", query)
		logging.LogEvent("[RAG] corpus: %s", cfg.RagCorpusPath)
		logging.LogEvent("[RAG] embedding model: %s", cfg.EmbeddingModel)
		logging.LogEvent("[RAG] min chunk chars: %d", cfg.MinChunkChars())
		logging.LogEvent("[RAG] topK: %d", cfg.TopK())
		logging.LogEvent("[RAG] relevance cutoff: %.2f", cfg.RelevanceCutoff())

		ctx := context.Background()
		emb, err := newEmbedder(cfg, apiKey)
		if err != nil {
			return err
		}

		grounding := rag.NewGrounding(emb, cfg.RagCorpusPath, cfg.RagIndexPath, cfg.MinChunkChars(), cfg.RelevanceCutoff())
		index, err := grounding.CorpusIndex(ctx)
		if err != nil {
			return err
		}
		logging.LogEvent("[RAG] indexed sections: %d", index.Len())

		retriever := rag.NewRetriever(index, emb, cfg.RelevanceCutoff())
		results, err := retriever.Search(ctx, query, cfg.TopK())
		if err != nil {
			return err
		}

		for i, result := range results {
			logging.LogEvent("[RAG] hit %d score=%.6f section=%d chars=%d", i+1, result.Similarity, result.Chunk.ID, result.Chunk.Length)
			logging.LogEvent("[RAG] hit %d text: %s", i+1, result.Chunk.Text)
		}
		if !retriever.Relevant(results) {
			logging.LogEvent("[RAG] best hit is below the relevance cutoff; a game would fall back to general knowledge")
			return nil
		}

		logging.LogEvent("[RAG] context:\n%s", rag.FormatContext(results))
		return nil
	},
}

func init() {
	ragCmd.AddCommand(ragPreviewCmd)
}
