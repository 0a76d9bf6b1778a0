package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the delegated Google account session",
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Acquire a token interactively",
	Long: `Login opens the Google consent page in your browser and caches the
granted token. It is a no-op when a valid token is already cached.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := authService.Login(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Signed in.")
		return nil
	},
}

var accountSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Forget the cached credential",
	Long: `Switch clears the cached and persisted token unconditionally. The next
event submission prompts for consent again, letting you pick a
different Google account.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := authService.SwitchAccount(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Credential cleared. The next sync will ask for consent.")
		return nil
	},
}

var accountStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		status := authService.Status(cmd.Context())
		switch status.State {
		case domain.StateReady:
			cmd.Printf("Signed in; token expires %s\n", status.ExpiresAt.Format("2006-01-02 15:04:05"))
		case domain.StatePending:
			cmd.Println("Consent flow in progress.")
		default:
			cmd.Println("Not signed in.")
		}
		return nil
	},
}

func init() {
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountSwitchCmd)
	accountCmd.AddCommand(accountStatusCmd)
	rootCmd.AddCommand(accountCmd)
}
