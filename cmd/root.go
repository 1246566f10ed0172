package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/nable/internal/config"
	"github.com/abhisek/nable/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "nable",
	Short: "Adaptive question recommendation",
	Long: "nable tracks per-skill mastery for each learner and recommends the next question\n" +
		"from a candidate pool, adapting difficulty to recent answers.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NABLE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides NABLE_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev, prod or nop")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resetSessionCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or NABLE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}
