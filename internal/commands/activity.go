package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/activity"
)

func newActivityCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent data-changing operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := activity.Tail(a.dataDir, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No activity recorded.")
				return nil
			}

			for _, e := range entries {
				line := fmt.Sprintf("%s  %-9s %-14s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Source, e.Action)
				if e.Entity != "" {
					line += " " + e.Entity
				}
				if e.Details != "" {
					line += "  " + e.Details
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")

	return cmd
}
