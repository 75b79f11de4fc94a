package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

func newAccountsCommand(opts *rootOptions) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}
	accountsCmd.AddCommand(newAccountsListCommand(opts))
	accountsCmd.AddCommand(newAccountsAddCommand(opts))
	return accountsCmd
}

func newAccountsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			accounts, err := a.accounts.List()
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println("No accounts yet.")
				return nil
			}

			total := decimal.Zero
			for _, acc := range accounts {
				fmt.Printf("%s  %-10s %-20s %12s %s\n",
					acc.ID, acc.Type, acc.Name, acc.Balance.StringFixed(2), acc.Currency)
				total = total.Add(acc.Balance)
			}
			fmt.Printf("Total balance: %s\n", total.StringFixed(2))
			return nil
		},
	}
}

func newAccountsAddCommand(opts *rootOptions) *cobra.Command {
	var (
		name        string
		accountType string
		currency    string
		balance     string
		institution string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			opening, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("parsing --balance %q: %w", balance, err)
			}
			if currency == "" {
				currency = a.cfg.Currency
			}

			acc := model.Account{
				Name:        name,
				Type:        model.AccountType(accountType),
				Currency:    currency,
				Balance:     opening,
				Institution: institution,
			}
			if err := model.JoinValidation(acc.Validate()); err != nil {
				return err
			}
			if err := a.accounts.Create(&acc); err != nil {
				return err
			}

			a.recordActivity("account.add", acc.ID, acc.Name)
			fmt.Printf("Added account %s (%s)\n", acc.Name, acc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "checking", "account type (checking|savings|credit|investment|cash)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default from config)")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&institution, "institution", "", "institution name")

	return cmd
}
