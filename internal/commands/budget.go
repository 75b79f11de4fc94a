package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/budget"
	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/period"
)

func newBudgetCommand(opts *rootOptions) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly category budgets",
	}
	budgetCmd.AddCommand(newBudgetSetCommand(opts))
	budgetCmd.AddCommand(newBudgetStatusCommand(opts))
	return budgetCmd
}

func newBudgetSetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Set a monthly spending limit for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			limit, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("parsing limit %q: %w", args[1], err)
			}

			b := model.Budget{Category: args[0], Limit: limit}
			if err := model.JoinValidation(b.Validate()); err != nil {
				return err
			}
			if err := a.budgets.Upsert(&b); err != nil {
				return err
			}

			a.recordActivity("budget.set", b.Category, b.Limit.StringFixed(2))
			fmt.Printf("Budget for %s set to %s per month\n", b.Category, b.Limit.StringFixed(2))
			return nil
		},
	}
}

func newBudgetStatusCommand(opts *rootOptions) *cobra.Command {
	var monthStr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show spending against each budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			p := period.Current()
			if monthStr != "" {
				p, err = period.Parse(monthStr)
				if err != nil {
					return err
				}
			}

			statuses, err := budget.NewService(a.budgets, a.txs, a.log).StatusAll(p)
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Println("No budgets set.")
				return nil
			}

			fmt.Printf("Budgets for %s:\n", p.Format())
			for _, st := range statuses {
				marker := ""
				if st.OverBudget {
					marker = "  OVER"
				}
				fmt.Printf("  %-20s %10s of %10s (%s%%)%s\n",
					st.Category, st.Spent.StringFixed(2), st.Limit.StringFixed(2),
					st.PercentUsed.StringFixed(1), marker)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&monthStr, "month", "", "month YYYY-MM (default current)")

	return cmd
}
