package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

const dateFlagLayout = "2006-01-02"

// parseDateFlag parses a YYYY-MM-DD flag value; empty means unset.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFlagLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --%s %q: expected YYYY-MM-DD", name, value)
	}
	return t, nil
}

func newTxCommand(opts *rootOptions) *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	txCmd.AddCommand(newTxAddCommand(opts))
	txCmd.AddCommand(newTxListCommand(opts))
	return txCmd
}

func newTxAddCommand(opts *rootOptions) *cobra.Command {
	var (
		accountID   string
		amount      string
		description string
		dateStr     string
		category    string
		notes       string
		reference   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing --amount %q: %w", amount, err)
			}
			date, err := parseDateFlag("date", dateStr)
			if err != nil {
				return err
			}
			if date.IsZero() {
				date = time.Now().UTC().Truncate(24 * time.Hour)
			}

			if _, err := a.accounts.Get(accountID); err != nil {
				return fmt.Errorf("account %s: %w", accountID, err)
			}

			t := model.Transaction{
				AccountID:   accountID,
				Date:        date,
				Description: description,
				Amount:      amt,
				Category:    category,
				Reference:   reference,
				Notes:       notes,
			}
			if err := model.JoinValidation(t.Validate()); err != nil {
				return err
			}
			if err := a.txs.Create(&t); err != nil {
				return err
			}

			acc, err := a.accounts.Get(accountID)
			if err != nil {
				return err
			}

			a.recordActivity("tx.add", t.ID, fmt.Sprintf("%s %s", t.Description, t.Amount.StringFixed(2)))
			fmt.Printf("Recorded %s %s on %s (%s balance now %s)\n",
				t.Description, t.Amount.StringFixed(2), t.Date.Format(dateFlagLayout),
				acc.Name, acc.Balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account ID (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, negative for expenses (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&description, "desc", "", "description (required)")
	_ = cmd.MarkFlagRequired("desc")
	cmd.Flags().StringVar(&dateStr, "date", "", "date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&category, "category", "", "spending category")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&reference, "ref", "", "external reference for dedup")

	return cmd
}

func newTxListCommand(opts *rootOptions) *cobra.Command {
	var (
		accountID string
		category  string
		fromStr   string
		toStr     string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			from, err := parseDateFlag("from", fromStr)
			if err != nil {
				return err
			}
			to, err := parseDateFlag("to", toStr)
			if err != nil {
				return err
			}
			filter := store.TxFilter{
				AccountID: accountID,
				Category:  category,
				From:      from,
				Limit:     limit,
			}
			if !to.IsZero() {
				// The store treats To as exclusive; the flag is inclusive.
				filter.To = to.AddDate(0, 0, 1)
			}

			txns, err := a.txs.List(filter)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println("No transactions match.")
				return nil
			}

			for _, t := range txns {
				fmt.Printf("%s  %12s  %-30s %s\n",
					t.Date.Format(dateFlagLayout), t.Amount.StringFixed(2), t.Description, t.Category)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "filter by account ID")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&fromStr, "from", "", "earliest date YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "latest date YYYY-MM-DD (inclusive)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows, 0 for all")

	return cmd
}
