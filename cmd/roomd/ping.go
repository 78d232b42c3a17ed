package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pingFlags struct {
	clientConfig
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check server liveness",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)

	addClientFlags(pingCmd, &pingFlags.clientConfig)
}

func runPing(cmd *cobra.Command, args []string) error {
	c, err := pingFlags.newClient(false)
	if err != nil {
		return err
	}

	if err := c.Ping(context.Background()); err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), "pong")
	return err
}
