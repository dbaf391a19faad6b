package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage local accounts",
	Long:  `Accounts author clients. Admin accounts may change any client.`,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Register a local account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		admin, _ := cmd.Flags().GetBool("admin")

		account, err := appInstance.AccountService.Register(context.Background(), args[0], admin)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Account created: %s (%s)\n", account.Username, account.Role)
		fmt.Printf("  ID: %s\n", account.ID)
		return nil
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := appInstance.AccountService.List(context.Background())
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Println("No accounts found")
			return nil
		}

		fmt.Printf("%-36s  %-20s %-6s\n", "ID", "Username", "Role")
		fmt.Println("------------------------------------------------------------------")
		for _, a := range accounts {
			fmt.Printf("%-36s  %-20s %-6s\n", a.ID, truncate(a.Username, 20), a.Role)
		}
		return nil
	},
}

func init() {
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)

	accountsAddCmd.Flags().Bool("admin", false, "Grant the ADMIN role")
}
