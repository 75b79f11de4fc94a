package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/exporter"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored data",
	}
	exportCmd.AddCommand(newExportTransactionsCommand(opts))
	exportCmd.AddCommand(newExportAccountsCommand(opts))
	exportCmd.AddCommand(newExportSnapshotCommand(opts))
	return exportCmd
}

func (a *app) exporter() *exporter.Service {
	return exporter.NewService(a.accounts, a.txs, a.debts, a.budgets, a.log)
}

// withOutput writes to path, or stdout when path is empty.
func withOutput(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newExportTransactionsCommand(opts *rootOptions) *cobra.Command {
	var (
		formatStr string
		out       string
		accountID string
		category  string
		fromStr   string
		toStr     string
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Export transactions as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			format, err := exporter.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			from, err := parseDateFlag("from", fromStr)
			if err != nil {
				return err
			}
			to, err := parseDateFlag("to", toStr)
			if err != nil {
				return err
			}
			filter := store.TxFilter{AccountID: accountID, Category: category, From: from}
			if !to.IsZero() {
				filter.To = to.AddDate(0, 0, 1)
			}

			return withOutput(out, func(w io.Writer) error {
				return a.exporter().Transactions(w, filter, format)
			})
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "csv", "output format (csv|json)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&accountID, "account", "", "filter by account ID")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&fromStr, "from", "", "earliest date YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "latest date YYYY-MM-DD (inclusive)")

	return cmd
}

func newExportAccountsCommand(opts *rootOptions) *cobra.Command {
	var (
		formatStr string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Export accounts as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			format, err := exporter.ParseFormat(formatStr)
			if err != nil {
				return err
			}
			return withOutput(out, func(w io.Writer) error {
				return a.exporter().Accounts(w, format)
			})
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "csv", "output format (csv|json)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")

	return cmd
}

func newExportSnapshotCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [directory]",
		Short: "Export everything as CSVs into a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			dir := filepath.Join(a.dataDir, "exports", time.Now().Format("2006-01-02-150405"))
			if len(args) > 0 {
				dir = args[0]
			}
			if err := a.exporter().Snapshot(dir); err != nil {
				return err
			}

			a.recordActivity("export", dir, "")
			fmt.Printf("Exported snapshot to %s\n", dir)
			return nil
		},
	}

	return cmd
}
