package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/haikuchat/internal/rooms"
)

var guestName string

var guestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Request a guest identity from the relay",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := rooms.NewClient(cfg.APIURL, nil, logger).Guest(cmd.Context(), guestName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "user_id:  %s\n", id.UserID)
		fmt.Fprintf(out, "username: %s\n", id.Username)
		if id.Token != "" {
			fmt.Fprintf(out, "token:    %s\n", id.Token)
		}
		return nil
	},
}

func init() {
	guestCmd.Flags().StringVarP(&guestName, "name", "n", "", "Display name")
}
