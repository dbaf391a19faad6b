package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andy/oficina/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive terminal user interface for browsing clients and budgets.`,
	Run:   launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) {
	if appInstance == nil {
		fmt.Fprintln(os.Stderr, "app not initialized")
		return
	}
	if err := tui.Run(appInstance); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
	}
}
