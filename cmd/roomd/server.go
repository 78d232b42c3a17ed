package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roomdhq/roomd/internal/config"
	"github.com/roomdhq/roomd/internal/db"
	"github.com/roomdhq/roomd/internal/identity"
	"github.com/roomdhq/roomd/internal/logging"
	"github.com/roomdhq/roomd/internal/registry"
	"github.com/roomdhq/roomd/internal/server"
	"github.com/roomdhq/roomd/internal/synth"
	"github.com/spf13/cobra"
)

var serverFlags struct {
	configFile string
	listenAddr string
	dbPath     string
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the roomd HTTP server",
	Long: `Start the roomd server: the management API under /api/v1 and the
public room replay endpoint under /room/.

Configuration is read from roomd.yaml (working directory or /etc/roomd),
ROOMD_* environment variables, and flags, in increasing precedence.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverFlags.configFile, "config", "", "path to config file")
	serverCmd.Flags().StringVar(&serverFlags.listenAddr, "listen", "", "listen address (overrides config)")
	serverCmd.Flags().StringVar(&serverFlags.dbPath, "db", "", "database path (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serverFlags.configFile)
	if err != nil {
		return err
	}
	if serverFlags.listenAddr != "" {
		cfg.ListenAddr = serverFlags.listenAddr
	}
	if serverFlags.dbPath != "" {
		cfg.DBPath = serverFlags.dbPath
	}

	logger, err = logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	gate := &identity.Gate{
		DB:         database,
		Logger:     logger.Named("identity"),
		SessionTTL: time.Duration(cfg.SessionTTLSeconds) * time.Second,
	}
	reg := &registry.Registry{
		DB:      database,
		Logger:  logger.Named("registry"),
		RoomTTL: time.Duration(cfg.RoomTTLSeconds) * time.Second,
	}
	syn := &synth.Synthesizer{
		DB:     database,
		Logger: logger.Named("synth"),
	}

	srv := server.New(gate, reg, syn, logger.Named("http"))
	managed := server.NewManagedServer("http", cfg.ListenAddr, srv.Handler(), logger.Named("http"))

	logger.Info("starting server", logging.Addr(cfg.ListenAddr))
	managed.Start()
	if err := managed.WaitForStartup(250 * time.Millisecond); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	managed.Shutdown(ctx)

	return nil
}
