package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fgloris/smart-meeting-go/internal/messaging"
)

var msgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Direct messaging",
}

func init() {
	msgCmd.AddCommand(
		&cobra.Command{
			Use:   "send <friend-id> <content>",
			Short: "Send a message",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				friendID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid friend id: %w", err)
				}
				return withMessaging(cmd.Context(), func(ctx context.Context, m *messaging.Manager) error {
					msg, err := m.Send(ctx, friendID, args[1])
					if err != nil {
						return err
					}
					fmt.Printf("sent message %d\n", msg.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "history <friend-id>",
			Short: "Show the conversation, oldest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				friendID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid friend id: %w", err)
				}
				return withMessaging(cmd.Context(), func(ctx context.Context, m *messaging.Manager) error {
					msgs, err := m.FetchHistory(ctx, friendID)
					if err != nil {
						return err
					}
					for _, msg := range msgs {
						flag := " "
						if !msg.IsRead {
							flag = "*"
						}
						fmt.Printf("%s [%s] %d: %s\n", flag, msg.CreatedAt.Format(time.RFC3339), msg.SenderID, msg.Content)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "unread",
			Short: "Show unread counts per conversation",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMessaging(cmd.Context(), func(ctx context.Context, m *messaging.Manager) error {
					if err := m.RefreshUnread(ctx); err != nil {
						return err
					}
					fmt.Printf("total unread: %d\n", m.TotalUnread())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "read-all <friend-id>",
			Short: "Mark every received message in the conversation as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				friendID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid friend id: %w", err)
				}
				return withMessaging(cmd.Context(), func(ctx context.Context, m *messaging.Manager) error {
					if _, err := m.FetchHistory(ctx, friendID); err != nil {
						return err
					}
					return m.MarkAllRead(ctx, friendID)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <message-id>",
			Short: "Delete a message (terminal)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				messageID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid message id: %w", err)
				}
				return withMessaging(cmd.Context(), func(ctx context.Context, m *messaging.Manager) error {
					return m.DeleteMessage(ctx, messageID)
				})
			},
		},
	)
}

func withMessaging(ctx context.Context, fn func(context.Context, *messaging.Manager) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := a.identity()
	if err != nil {
		return err
	}
	return fn(ctx, a.messaging(id))
}
