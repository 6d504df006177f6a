package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Authenticate and persist the identity for later commands",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := a.sess.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if err := saveState(a.cfg.StatePath, id); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		fmt.Printf("logged in as %s (uid %d)\n", id.Username, id.UID)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <email>",
	Short: "Request a registration verification code (repeatable to resend)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.sess.BeginVerification(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("verification code sent to %s\n", args[0])
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <password> <email> <code>",
	Short: "Register with the code received via `meetctl verify`",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := a.sess.Register(cmd.Context(), args[0], args[1], args[2], args[3])
		if err != nil {
			return err
		}
		if err := saveState(a.cfg.StatePath, id); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		fmt.Printf("registered as %s (uid %d)\n", id.Username, id.UID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the persisted identity (local only, no backend call)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.sess.Logout()
		return clearState(a.cfg.StatePath)
	},
}
