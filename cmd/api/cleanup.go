package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete sessions past their retention window once and exit",
	RunE:  runCleanup,
}

func init() {
	cleanupCmd.Flags().Int("older-than-days", defaultRetentionDays, "delete completed sessions older than this many days")
}

const defaultRetentionDays = 30

func runCleanup(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	days, err := cmd.Flags().GetInt("older-than-days")
	if err != nil {
		return err
	}

	rt, err := bootstrap(cmd.Context(), cfg, log, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.service.Cleanup(cmd.Context(), days)
	if err != nil {
		log.Error("❌ Cleanup failed", zap.Error(err))
		return err
	}

	log.Info("🧹 Cleanup finished",
		zap.Int("older_than_days", days),
		zap.Int64("completed", result.Completed),
		zap.Int64("error", result.Error),
		zap.Int64("abandoned", result.Abandoned),
		zap.Int64("total", result.Total),
	)
	return nil
}
