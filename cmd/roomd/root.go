package main

import (
	"fmt"
	"os"

	"github.com/roomdhq/roomd/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "roomd",
	Short: "Ephemeral mock HTTP endpoint server",
	Long: `roomd provisions ephemeral, uniquely-addressed HTTP endpoints
("rooms") that replay a pre-configured response. Rooms expire after a
configurable time-to-live and can be revoked by the session that
created them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Config{
			Level:  getEnv("ROOMD_LOG_LEVEL", "info"),
			Format: getEnv("ROOMD_LOG_FORMAT", "json"),
		})
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logging.Sync(logger)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
