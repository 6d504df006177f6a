package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Live-streaming rooms",
}

func init() {
	roomCmd.AddCommand(
		&cobra.Command{
			Use:   "create <title>",
			Short: "Create a live room and print its stream, secret and URLs",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp()
				if err != nil {
					return err
				}
				coord := a.live()
				room, err := coord.CreateRoom(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("room:    %s (%s)\n", room.UUID, room.Title)
				fmt.Printf("stream:  %s\n", room.Stream)
				fmt.Printf("secret:  %s\n", room.Secret)
				fmt.Printf("ingest:  %s\n", coord.StreamURL(room.Stream, room.Secret))
				fmt.Printf("play:    %s\n", coord.PlayURL(room.Stream))
				return nil
			},
		},
		&cobra.Command{
			Use:   "join <stream> <secret>",
			Short: "Derive URLs for an existing room from its stream and secret",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp()
				if err != nil {
					return err
				}
				coord := a.live()
				room, err := coord.JoinRoom(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("ingest:  %s\n", coord.StreamURL(room.Stream, room.Secret))
				fmt.Printf("play:    %s\n", coord.PlayURL(room.Stream))
				return nil
			},
		},
	)
}
