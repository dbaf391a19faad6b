package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/oficina/internal/app"
	"github.com/andy/oficina/internal/service"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "oficina",
	Short: "Client and budget records for a vehicle repair shop",
	Long: `Oficina keeps the clients of a repair shop and the budgets (orçamentos)
quoted to them, with totals always computed from the quoted services and parts.

By default, running oficina without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("log") {
			spec, _ := cmd.Flags().GetString("log")
			return app.ConfigureLogging(spec)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: launch TUI
		launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	switch service.ErrorKind(err) {
	case "":
		return 0
	case service.KindInvalidArgument:
		return 2
	case service.KindNotFound:
		return 3
	case service.KindForbidden:
		return 4
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().String("log", "", `Logging spec, e.g. "<root>=INFO"`)

	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(partsCmd)
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(budgetsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
