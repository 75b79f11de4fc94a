package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/importer"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var (
		accountID string
		format    string
	)

	formats := strings.Join(importer.DefaultRegistry().Formats(), "|")

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import bank CSV transactions",
		Long: "Import parses a bank statement CSV and records its rows as transactions.\n" +
			"Rows seen in an earlier import are skipped. With no file argument, every\n" +
			"CSV in <data>/import is imported and moved to import/processed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.accounts.Get(accountID); err != nil {
				return fmt.Errorf("account %s: %w", accountID, err)
			}
			svc := importer.NewService(importer.DefaultRegistry(), a.txs, a.log)

			var results []importer.Result
			if len(args) == 1 {
				res, err := svc.ImportFile(args[0], format, accountID)
				if err != nil {
					return err
				}
				results = append(results, *res)
			} else {
				results, err = svc.ImportDir(a.dataDir, format, accountID)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Println("No CSV files in import/.")
					return nil
				}
			}

			for _, res := range results {
				a.recordActivity("import", res.File, fmt.Sprintf("imported=%d skipped=%d", res.Imported, res.Skipped))
				fmt.Printf("Imported %d transactions from %s (%d duplicates skipped)\n",
					res.Imported, res.File, res.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account ID to import into (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&format, "format", "simple", "statement format ("+formats+")")

	return cmd
}
