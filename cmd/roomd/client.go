package main

import (
	"fmt"
	"os"

	"github.com/roomdhq/roomd/internal/client"
	"github.com/spf13/cobra"
)

type clientConfig struct {
	serverURL string
	token     string
}

func addClientFlags(cmd *cobra.Command, cfg *clientConfig) {
	cmd.Flags().StringVar(&cfg.serverURL, "server", os.Getenv("ROOMD_SERVER_URL"), "roomd server base URL")
	cmd.Flags().StringVar(&cfg.token, "token", os.Getenv("ROOMD_SESSION_TOKEN"), "session token")
}

func (cfg *clientConfig) newClient(needToken bool) (*client.Client, error) {
	if cfg.serverURL == "" {
		return nil, fmt.Errorf("server URL required (use --server flag or ROOMD_SERVER_URL env var)")
	}
	if needToken && cfg.token == "" {
		return nil, fmt.Errorf("session token required (use --token flag or ROOMD_SESSION_TOKEN env var)")
	}
	return client.NewClient(cfg.serverURL, cfg.token), nil
}
