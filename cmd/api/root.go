package main

import (
	"github.com/spf13/cobra"

	"alfredoptarigan/interview-simulator/internal/config"
)

const app = "interview-simulator"

var rootCmd = &cobra.Command{
	Use:          app,
	Short:        "AI mock interview API",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "verbose/debug output (overrides LOG_DEBUG)")
	rootCmd.PersistentFlags().Bool("json", false, "json format for logging (overrides LOG_JSON)")

	rootCmd.AddCommand(serveCmd, cleanupCmd, ingestCmd)
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Log.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("json") {
		cfg.Log.JSON, _ = flags.GetBool("json")
	}
	return cfg
}
