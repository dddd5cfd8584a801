// internal/cli/play.go
package quizdeck

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/starfield-labs/quizdeck/internal/logging"
	"github.com/starfield-labs/quizdeck/internal/tui"
)

// playCmd represents the 'play' command.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive quiz game",
	Long:  `The 'play' command generates a board for the configured topic and starts the interactive game in the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		apiKey, err := requireAPIKey(cfg)
		if err != nil {
			return err
		}

		// The TUI owns the terminal; the log goes to the file only.
		if err := logging.InitFile(cfg.LogFilePath()); err != nil {
			return err
		}
		defer logging.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		generator, client, err := newGenerator(cfg, apiKey)
		if err != nil {
			return err
		}
		session := newSession(cfg, generator)

		return tui.Start(ctx, tui.Deps{
			Session:     session,
			Source:      generator,
			Distractors: newDistractorFunc(client),
			Topic:       cfg.QuizTopic(),
			Debug:       cfg.Debug,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
