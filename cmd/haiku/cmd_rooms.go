package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/haikuchat/internal/rooms"
)

var (
	roomsUser string
	roomsName string
	roomsCode string
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Create, list and join rooms",
}

var roomsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a room owned by --user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		room, err := roomsClient().Create(cmd.Context(), rooms.CreateRequest{
			Code:   roomsCode,
			Name:   roomsName,
			UserID: roomsUser,
		})
		if err != nil {
			return err
		}
		printRoom(cmd.OutOrStdout(), room)
		return nil
	},
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rooms --user owns or joined",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := roomsClient().ListForUser(cmd.Context(), roomsUser)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "no rooms")
			return nil
		}
		for _, room := range list {
			printRoom(out, room)
		}
		return nil
	},
}

var roomsJoinCmd = &cobra.Command{
	Use:   "join CODE",
	Short: "Join an existing room by its code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		room, err := roomsClient().Join(cmd.Context(), args[0], roomsUser)
		if err != nil {
			return err
		}
		printRoom(cmd.OutOrStdout(), room)
		return nil
	},
}

func init() {
	roomsCmd.PersistentFlags().StringVarP(&roomsUser, "user", "u", "", "User ID (required)")
	_ = roomsCmd.MarkPersistentFlagRequired("user")

	roomsCreateCmd.Flags().StringVarP(&roomsName, "name", "n", "", "Room name (required)")
	roomsCreateCmd.Flags().StringVar(&roomsCode, "code", "", "Room code, generated when empty")
	_ = roomsCreateCmd.MarkFlagRequired("name")

	roomsCmd.AddCommand(roomsCreateCmd, roomsListCmd, roomsJoinCmd)
}

func roomsClient() *rooms.Client {
	return rooms.NewClient(cfg.APIURL, nil, logger)
}

func printRoom(w io.Writer, room rooms.Room) {
	fmt.Fprintf(w, "%-8s %-16s %s  %s\n", room.ID, room.Name, room.MessageTime, room.LastMessage)
}
