// internal/cli/root.go
package quizdeck

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/starfield-labs/quizdeck/internal/appconfig"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "quizdeck",
	Short: "quizdeck — terminal quiz boards synthesized from a topic and your course notes",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Pick up QUIZDECK_API_KEY and friends from a local .env, if present.
		_ = godotenv.Load()

		// 2) Load the config file.
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// 3) Flags override the file. Only values the user actually set are
		//    copied, so the file remains the default.
		if cmd.Flags().Changed("debug") {
			cfg.Debug = viper.GetBool("debug")
		}
		if cmd.Flags().Changed("topic") {
			cfg.Topic = viper.GetString("topic")
		}
		if cmd.Flags().Changed("teams") {
			cfg.Teams = viper.GetInt("teams")
		}
		if cmd.Flags().Changed("ragMode") {
			cfg.RagMode = viper.GetBool("ragMode")
		}
		if cmd.Flags().Changed("logFile") {
			cfg.LogFile = viper.GetString("logFile")
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("topic", "", "quiz subject area")
	rootCmd.PersistentFlags().Int("teams", 0, "number of competing teams (1-4)")
	rootCmd.PersistentFlags().Bool("ragMode", false, "ground one category in the course-notes corpus")
	rootCmd.PersistentFlags().String("logFile", "", "path to the application log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("topic", rootCmd.PersistentFlags().Lookup("topic"))
	_ = viper.BindPFlag("teams", rootCmd.PersistentFlags().Lookup("teams"))
	_ = viper.BindPFlag("ragMode", rootCmd.PersistentFlags().Lookup("ragMode"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}
