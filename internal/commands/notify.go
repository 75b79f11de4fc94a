package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/budget"
	"github.com/wealthtracker-dev/wealthtracker/internal/notify"
)

func newNotifyCommand(opts *rootOptions) *cobra.Command {
	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Evaluate and list notifications",
	}
	notifyCmd.AddCommand(newNotifyCheckCommand(opts))
	notifyCmd.AddCommand(newNotifyListCommand(opts))
	return notifyCmd
}

func newNotifyCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the notification rules now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			budgets := budget.NewService(a.budgets, a.txs, a.log)
			engine := notify.NewEngine(
				notify.ThresholdsFromConfig(a.cfg.Notifications),
				budgets, a.accounts, a.txs, a.debts, a.recurring, a.notifications, a.log,
			)

			created, err := engine.EvaluateAll(time.Now().UTC())
			if err != nil {
				return err
			}

			a.recordActivity("notify.check", "", fmt.Sprintf("created=%d", len(created)))
			if len(created) == 0 {
				fmt.Println("No new notifications.")
				return nil
			}
			for _, n := range created {
				fmt.Printf("%-7s %-18s %s\n", n.Severity, n.Rule, n.Message)
			}
			return nil
		},
	}
}

func newNotifyListCommand(opts *rootOptions) *cobra.Command {
	var (
		unread bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			notifications, err := a.notifications.List(unread, limit)
			if err != nil {
				return err
			}
			if len(notifications) == 0 {
				fmt.Println("No notifications.")
				return nil
			}

			for _, n := range notifications {
				marker := " "
				if n.ReadAt == nil {
					marker = "*"
				}
				fmt.Printf("%s %s  %-7s %-18s %s\n",
					marker, n.CreatedAt.Format(dateFlagLayout), n.Severity, n.Rule, n.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum notifications to show")

	return cmd
}
