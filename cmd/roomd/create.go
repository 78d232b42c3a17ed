package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roomdhq/roomd/internal/api"
	"github.com/spf13/cobra"
)

var createFlags struct {
	clientConfig
	typeID     int64
	content    string
	name       string
	headers    map[string]string
	params     map[string]string
	fallback   int
	waitMicros int64
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a room",
	Long:  `Create a room that replays the given content until it expires.`,
	RunE:  runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	addClientFlags(createCmd, &createFlags.clientConfig)
	createCmd.Flags().Int64Var(&createFlags.typeID, "type-id", 1, "content type id")
	createCmd.Flags().StringVar(&createFlags.content, "content", "", "response body content")
	createCmd.Flags().StringVar(&createFlags.name, "name", "", "optional room name")
	createCmd.Flags().StringToStringVar(&createFlags.headers, "header", nil, "response header (key=value, repeatable)")
	createCmd.Flags().StringToStringVar(&createFlags.params, "require-param", nil, "required query parameter (key=value, repeatable)")
	createCmd.Flags().IntVar(&createFlags.fallback, "on-invalid-status", 200, "status code returned on failed parameter validation")
	createCmd.Flags().Int64Var(&createFlags.waitMicros, "wait-micros", 0, "artificial response latency floor in microseconds")
}

func runCreate(cmd *cobra.Command, args []string) error {
	c, err := createFlags.newClient(true)
	if err != nil {
		return err
	}

	info, err := c.CreateRoom(context.Background(), api.CreateRoomRequest{
		TypeID:              createFlags.typeID,
		Content:             createFlags.content,
		Name:                createFlags.name,
		Headers:             createFlags.headers,
		RequireParameters:   createFlags.params,
		OnInvalidStatusCode: createFlags.fallback,
		WaitMicroseconds:    createFlags.waitMicros,
	})
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
