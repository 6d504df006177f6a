package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fgloris/smart-meeting-go/internal/meeting"
)

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Meetings and meeting files",
}

func init() {
	meetingCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your meetings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMeetings(cmd.Context(), func(ctx context.Context, m *meeting.Manager) error {
					meetings, err := m.List(ctx)
					if err != nil {
						return err
					}
					for _, mt := range meetings {
						fmt.Printf("%6d  %s  %s\n", mt.ID, mt.StartTime.Format(time.RFC3339), mt.Title)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "files <meeting-id>",
			Short: "List a meeting's files (soft-deleted excluded)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				meetingID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid meeting id: %w", err)
				}
				return withMeetings(cmd.Context(), func(ctx context.Context, m *meeting.Manager) error {
					files, err := m.Files(ctx, meetingID)
					if err != nil {
						return err
					}
					for _, f := range files {
						fmt.Printf("%6d  %10d  %s  (%s)\n", f.ID, f.FileSize, f.FileName, f.FilePath)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "upload <meeting-id> <path>",
			Short: "Upload a file to a meeting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				meetingID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid meeting id: %w", err)
				}
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer func() {
					_ = f.Close()
				}()
				return withMeetings(cmd.Context(), func(ctx context.Context, m *meeting.Manager) error {
					file, err := m.Upload(ctx, meetingID, filepath.Base(args[1]), "", f)
					if err != nil {
						return err
					}
					fmt.Printf("uploaded file %d (%s)\n", file.ID, file.FilePath)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "download <server-path> <dest>",
			Short: "Download a meeting file by its server-side path",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := os.Create(args[1])
				if err != nil {
					return err
				}
				defer func() {
					_ = out.Close()
				}()
				return withMeetings(cmd.Context(), func(ctx context.Context, m *meeting.Manager) error {
					n, err := m.Download(ctx, args[0], out)
					if err != nil {
						return err
					}
					fmt.Printf("wrote %d bytes to %s\n", n, args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete-file <file-id>",
			Short: "Soft-delete a meeting file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fileID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid file id: %w", err)
				}
				return withMeetings(cmd.Context(), func(ctx context.Context, m *meeting.Manager) error {
					return m.DeleteFile(ctx, fileID)
				})
			},
		},
	)
}

func withMeetings(ctx context.Context, fn func(context.Context, *meeting.Manager) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := a.identity()
	if err != nil {
		return err
	}
	return fn(ctx, a.meetings(id))
}
