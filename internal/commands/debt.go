package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/payoff"
)

func newDebtCommand(opts *rootOptions) *cobra.Command {
	debtCmd := &cobra.Command{
		Use:   "debt",
		Short: "Track debts and project payoff plans",
	}
	debtCmd.AddCommand(newDebtAddCommand(opts))
	debtCmd.AddCommand(newDebtListCommand(opts))
	debtCmd.AddCommand(newDebtPayCommand(opts))
	debtCmd.AddCommand(newDebtPlanCommand(opts))
	debtCmd.AddCommand(newDebtCompareCommand(opts))
	return debtCmd
}

func newDebtAddCommand(opts *rootOptions) *cobra.Command {
	var (
		name       string
		balance    string
		rate       string
		minPayment string
		dueDay     int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			bal, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("parsing --balance %q: %w", balance, err)
			}
			apr, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("parsing --rate %q: %w", rate, err)
			}
			minPay, err := decimal.NewFromString(minPayment)
			if err != nil {
				return fmt.Errorf("parsing --min-payment %q: %w", minPayment, err)
			}

			d := model.Debt{
				Name:           name,
				Balance:        bal,
				AnnualRate:     apr,
				MinimumPayment: minPay,
				DueDay:         dueDay,
			}
			if err := model.JoinValidation(d.Validate()); err != nil {
				return err
			}
			if err := a.debts.Create(&d); err != nil {
				return err
			}

			a.recordActivity("debt.add", d.ID, d.Name)
			fmt.Printf("Added debt %s: balance %s at %s%% APR, minimum %s\n",
				d.Name, d.Balance.StringFixed(2), d.AnnualRate.StringFixed(2), d.MinimumPayment.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "debt name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&balance, "balance", "", "current balance (required)")
	_ = cmd.MarkFlagRequired("balance")
	cmd.Flags().StringVar(&rate, "rate", "", "annual interest rate percent (required)")
	_ = cmd.MarkFlagRequired("rate")
	cmd.Flags().StringVar(&minPayment, "min-payment", "", "minimum monthly payment (required)")
	_ = cmd.MarkFlagRequired("min-payment")
	cmd.Flags().IntVar(&dueDay, "due-day", 0, "payment due day of month (1-31)")

	return cmd
}

func newDebtListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked debts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			debts, err := a.debts.List()
			if err != nil {
				return err
			}
			if len(debts) == 0 {
				fmt.Println("No debts tracked.")
				return nil
			}

			total := decimal.Zero
			for _, d := range debts {
				line := fmt.Sprintf("%s  %-20s %12s  %6s%%  min %10s",
					d.ID, d.Name, d.Balance.StringFixed(2), d.AnnualRate.StringFixed(2), d.MinimumPayment.StringFixed(2))
				if d.DueDay > 0 {
					line += fmt.Sprintf("  due day %d", d.DueDay)
				}
				fmt.Println(line)
				total = total.Add(d.Balance)
			}
			fmt.Printf("Total debt: %s\n", total.StringFixed(2))
			return nil
		},
	}
}

func newDebtPayCommand(opts *rootOptions) *cobra.Command {
	var (
		amountStr string
		accountID string
	)

	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Record a payment against a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing --amount %q: %w", amountStr, err)
			}
			if !amount.IsPositive() {
				return fmt.Errorf("--amount must be positive, got %s", amount)
			}

			d, err := a.debts.Get(args[0])
			if err != nil {
				return err
			}

			// Overpayment settles the debt rather than going negative.
			d.Balance = d.Balance.Sub(amount)
			if d.Balance.IsNegative() {
				d.Balance = decimal.Zero
			}
			if err := a.debts.Update(d); err != nil {
				return err
			}

			if accountID != "" {
				tx := model.Transaction{
					AccountID:   accountID,
					Date:        time.Now().UTC(),
					Description: "Payment on " + d.Name,
					Amount:      amount.Neg(),
					Category:    "debt-payment",
				}
				if err := a.txs.Create(&tx); err != nil {
					return err
				}
			}

			a.recordActivity("debt.pay", d.ID, amount.StringFixed(2))
			line := fmt.Sprintf("Recorded %s payment on %s, balance now %s",
				amount.StringFixed(2), d.Name, d.Balance.StringFixed(2))
			if d.Balance.IsZero() {
				line += " (paid off)"
			}
			fmt.Println(line)
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "payment amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&accountID, "account", "", "also post the payment as a transaction from this account")

	return cmd
}

func newDebtPlanCommand(opts *rootOptions) *cobra.Command {
	var (
		strategyStr string
		extraStr    string
		maxMonths   int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Project a payoff schedule for the tracked debts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			strategy, err := payoff.ParseStrategy(strategyStr)
			if err != nil {
				return err
			}
			extra, err := decimal.NewFromString(extraStr)
			if err != nil {
				return fmt.Errorf("parsing --extra %q: %w", extraStr, err)
			}

			debts, err := a.debts.List()
			if err != nil {
				return err
			}
			if len(debts) == 0 {
				fmt.Println("No debts tracked.")
				return nil
			}

			res, err := payoff.Simulate(payoff.Plan{
				Debts:        model.PayoffDebts(debts),
				Strategy:     strategy,
				ExtraPayment: extra,
				MaxMonths:    maxMonths,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Strategy: %s, extra payment %s\n", res.Strategy, extra.StringFixed(2))
			renderResult(res, debtNames(debts))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyStr, "strategy", "snowball", "payoff strategy (snowball|avalanche)")
	cmd.Flags().StringVar(&extraStr, "extra", "0", "extra payment on top of the minimums")
	cmd.Flags().IntVar(&maxMonths, "max-months", 0, "projection ceiling in months (default 600)")

	return cmd
}

func newDebtCompareCommand(opts *rootOptions) *cobra.Command {
	var (
		extraStr  string
		maxMonths int
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare snowball and avalanche over the tracked debts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			extra, err := decimal.NewFromString(extraStr)
			if err != nil {
				return fmt.Errorf("parsing --extra %q: %w", extraStr, err)
			}

			debts, err := a.debts.List()
			if err != nil {
				return err
			}
			if len(debts) == 0 {
				fmt.Println("No debts tracked.")
				return nil
			}

			cmp, err := payoff.Compare(model.PayoffDebts(debts), extra, maxMonths)
			if err != nil {
				return err
			}

			fmt.Printf("Snowball:  %s\n", summaryLine(&cmp.Snowball))
			fmt.Printf("Avalanche: %s\n", summaryLine(&cmp.Avalanche))
			if cmp.InterestSaved.IsPositive() {
				line := fmt.Sprintf("Avalanche saves %s in interest", cmp.InterestSaved.StringFixed(2))
				if cmp.MonthsSaved > 0 {
					line += fmt.Sprintf(" and %d months", cmp.MonthsSaved)
				}
				fmt.Println(line + ".")
			} else {
				fmt.Println("Both strategies cost the same in interest.")
			}
			fmt.Printf("Recommended: %s\n", cmp.Recommended)
			return nil
		},
	}

	cmd.Flags().StringVar(&extraStr, "extra", "0", "extra payment on top of the minimums")
	cmd.Flags().IntVar(&maxMonths, "max-months", 0, "projection ceiling in months (default 600)")

	return cmd
}

// debtNames maps debt IDs to display names.
func debtNames(debts []model.Debt) map[string]string {
	names := make(map[string]string, len(debts))
	for _, d := range debts {
		names[d.ID] = d.Name
	}
	return names
}

func nameOf(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}

// renderResult prints one strategy run: headline, payoff order, and
// stall warnings.
func renderResult(res *payoff.Result, names map[string]string) {
	if res.Incomplete {
		fmt.Printf("Projection stopped after %d months with debts still open. Interest so far %s, paid %s.\n",
			res.Months, res.TotalInterest.StringFixed(2), res.TotalPaid.StringFixed(2))
	} else {
		fmt.Printf("Debt-free in %d months. Total interest %s, total paid %s.\n",
			res.Months, res.TotalInterest.StringFixed(2), res.TotalPaid.StringFixed(2))
	}

	if len(res.PayoffOrder) > 0 {
		fmt.Println("Payoff order:")
		for i, id := range res.PayoffOrder {
			sched, _ := res.ScheduleFor(id)
			if sched.Months == 0 {
				fmt.Printf("  %d. %s (already settled)\n", i+1, nameOf(names, id))
				continue
			}
			fmt.Printf("  %d. %s: month %d, interest %s\n",
				i+1, nameOf(names, id), sched.Months, sched.TotalInterest.StringFixed(2))
		}
	}

	for _, sched := range res.Schedules {
		if !sched.Stalled {
			continue
		}
		remaining := decimal.Zero
		if n := len(sched.Events); n > 0 {
			remaining = sched.Events[n-1].Remaining
		}
		fmt.Printf("  warning: %s will not be paid off under current payments (%s still owed after %d months)\n",
			nameOf(names, sched.DebtID), remaining.StringFixed(2), sched.Months)
	}
}

func summaryLine(res *payoff.Result) string {
	if res.Incomplete {
		return fmt.Sprintf("incomplete after %d months, interest so far %s", res.Months, res.TotalInterest.StringFixed(2))
	}
	return fmt.Sprintf("%d months, interest %s", res.Months, res.TotalInterest.StringFixed(2))
}
