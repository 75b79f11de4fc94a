package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

func newRecurringCommand(opts *rootOptions) *cobra.Command {
	recurringCmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring transaction templates",
	}
	recurringCmd.AddCommand(newRecurringAddCommand(opts))
	recurringCmd.AddCommand(newRecurringListCommand(opts))
	recurringCmd.AddCommand(newRecurringStopCommand(opts))
	return recurringCmd
}

func newRecurringAddCommand(opts *rootOptions) *cobra.Command {
	var (
		accountID string
		desc      string
		amountStr string
		category  string
		frequency string
		startStr  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring transaction template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.accounts.Get(accountID); err != nil {
				return fmt.Errorf("account %s: %w", accountID, err)
			}

			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing --amount %q: %w", amountStr, err)
			}
			start, err := parseDateFlag("start", startStr)
			if err != nil {
				return err
			}
			if start.IsZero() {
				start = time.Now().UTC().Truncate(24 * time.Hour)
			}

			rt := model.RecurringTransaction{
				AccountID:   accountID,
				Description: desc,
				Amount:      amount,
				Category:    category,
				Frequency:   model.Frequency(frequency),
				NextDate:    start,
				Active:      true,
			}
			if err := model.JoinValidation(rt.Validate()); err != nil {
				return err
			}
			if err := a.recurring.Create(&rt); err != nil {
				return err
			}

			a.recordActivity("recurring.add", rt.ID, fmt.Sprintf("%s %s %s", rt.Description, rt.Amount.StringFixed(2), rt.Frequency))
			fmt.Printf("Added %s recurring transaction %s (%s), next due %s\n",
				rt.Frequency, rt.Description, rt.Amount.StringFixed(2), rt.NextDate.Format(dateFlagLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account ID (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&desc, "desc", "", "description (required)")
	_ = cmd.MarkFlagRequired("desc")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount, negative for spending (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "repeat interval (weekly|monthly|yearly)")
	cmd.Flags().StringVar(&startStr, "start", "", "first due date YYYY-MM-DD (default today)")

	return cmd
}

func newRecurringStopCommand(opts *rootOptions) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a recurring transaction template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			if remove {
				if err := a.recurring.Delete(id); err != nil {
					return err
				}
				a.recordActivity("recurring.delete", id, "")
				fmt.Printf("Deleted recurring transaction %s\n", id)
				return nil
			}

			if err := a.recurring.Deactivate(id); err != nil {
				return err
			}
			a.recordActivity("recurring.stop", id, "")
			fmt.Printf("Stopped recurring transaction %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "delete the template instead of deactivating it")

	return cmd
}

func newRecurringListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring transaction templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			templates, err := a.recurring.List()
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println("No recurring transactions.")
				return nil
			}

			for _, rt := range templates {
				state := "active"
				if !rt.Active {
					state = "inactive"
				}
				fmt.Printf("%s  %-8s %-30s %12s  next %s  %s\n",
					rt.ID, rt.Frequency, rt.Description, rt.Amount.StringFixed(2),
					rt.NextDate.Format(dateFlagLayout), state)
			}
			return nil
		},
	}
}
