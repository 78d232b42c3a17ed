package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionFlags struct {
	clientConfig
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create a new session",
	Long:  `Create a new session and print its bearer token.`,
	RunE:  runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	addClientFlags(sessionCmd, &sessionFlags.clientConfig)
}

func runSession(cmd *cobra.Command, args []string) error {
	c, err := sessionFlags.newClient(false)
	if err != nil {
		return err
	}

	info, err := c.CreateSession(context.Background())
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
