package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  oficina reset budgets    # Delete all budgets and their lines
  oficina reset all        # Wipe everything: budgets, clients, catalog, accounts`,
}

var resetBudgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Delete all budgets and their lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL budgets. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := clearTables("budget_part_lines", "budget_service_lines", "budgets"); err != nil {
			return err
		}

		fmt.Println("All budgets have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: budgets, clients, catalog, accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL data (budgets, clients, services, parts, accounts). Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		// Order matters due to foreign keys
		err := clearTables(
			"budget_part_lines",
			"budget_service_lines",
			"budgets",
			"clients",
			"services",
			"parts",
			"accounts",
		)
		if err != nil {
			return err
		}

		fmt.Println("All data has been deleted.")
		return nil
	},
}

// clearTables empties tables in order inside one transaction
func clearTables(tables ...string) error {
	return appInstance.DB.WithTx(context.Background(), func(tx *sql.Tx) error {
		for _, table := range tables {
			if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetBudgetsCmd)
	resetCmd.AddCommand(resetAllCmd)
}
