package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/buildinfo"
)

// rootOptions carries flags shared by every subcommand.
type rootOptions struct {
	dataDir string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "wealthtracker",
		Short:   "Personal finance tracking and debt payoff planning",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data", defaultDataDir(), "data directory")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newServeCommand(opts),
		newAccountsCommand(opts),
		newTxCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
		newBudgetCommand(opts),
		newDebtCommand(opts),
		newRecurringCommand(opts),
		newBackupCommand(opts),
		newNotifyCommand(opts),
		newActivityCommand(opts),
	)

	return rootCmd
}

// defaultDataDir prefers WEALTHTRACKER_DATA, then the working
// directory.
func defaultDataDir() string {
	if dir := os.Getenv("WEALTHTRACKER_DATA"); dir != "" {
		return dir
	}
	return "."
}
