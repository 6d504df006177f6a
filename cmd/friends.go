package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fgloris/smart-meeting-go/internal/social"
)

var friendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "Manage the friend graph",
}

func init() {
	friendsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List friends and pending requests",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSocial(cmd.Context(), func(ctx context.Context, m *social.Manager) error {
					for _, e := range m.Friends() {
						fmt.Printf("friend    %6d  %s\n", e.FriendID, e.Username)
					}
					for _, e := range m.IncomingRequests() {
						fmt.Printf("incoming  %6d  %s\n", e.FriendID, e.Username)
					}
					for _, e := range m.OutgoingRequests() {
						fmt.Printf("outgoing  %6d  %s\n", e.FriendID, e.Username)
					}
					return nil
				})
			},
		},
		friendEdgeCmd("add", "Send a friend request", func(ctx context.Context, m *social.Manager, friendID int64) error {
			return m.SendRequest(ctx, friendID)
		}),
		friendEdgeCmd("accept", "Accept a pending incoming request", func(ctx context.Context, m *social.Manager, friendID int64) error {
			return m.Accept(ctx, friendID)
		}),
		friendEdgeCmd("reject", "Reject a pending incoming request", func(ctx context.Context, m *social.Manager, friendID int64) error {
			return m.Reject(ctx, friendID)
		}),
		friendEdgeCmd("remove", "Remove an accepted friend", func(ctx context.Context, m *social.Manager, friendID int64) error {
			return m.Remove(ctx, friendID)
		}),
		&cobra.Command{
			Use:   "quick-add <meeting-id>",
			Short: "Request friendship with every member of a meeting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				meetingID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid meeting id: %w", err)
				}
				return withSocial(cmd.Context(), func(ctx context.Context, m *social.Manager) error {
					if err := m.QuickAdd(ctx, meetingID); err != nil {
						return err
					}
					fmt.Printf("%d outgoing requests pending\n", len(m.OutgoingRequests()))
					return nil
				})
			},
		},
	)
}

func friendEdgeCmd(use, short string, op func(context.Context, *social.Manager, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <friend-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			friendID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid friend id: %w", err)
			}
			return withSocial(cmd.Context(), func(ctx context.Context, m *social.Manager) error {
				return op(ctx, m, friendID)
			})
		},
	}
}

// withSocial builds an authenticated, refreshed graph manager and runs fn.
func withSocial(ctx context.Context, fn func(context.Context, *social.Manager) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := a.identity()
	if err != nil {
		return err
	}
	m := a.social(id)
	if err := m.Refresh(ctx); err != nil {
		return err
	}
	return fn(ctx, m)
}
