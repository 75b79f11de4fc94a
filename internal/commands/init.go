package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wealthtracker-dev/wealthtracker/internal/activity"
	"github.com/wealthtracker-dev/wealthtracker/internal/config"
	"github.com/wealthtracker-dev/wealthtracker/internal/gitops"
	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dataDir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, currency)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "USD", "default currency code")

	return cmd
}

func runInit(dir, currency string) error {
	if isDataDir(dir) {
		return fmt.Errorf("%s already holds a wealthtracker data directory", dir)
	}
	if len(currency) != 3 {
		return fmt.Errorf("currency %q is not a 3-letter code", currency)
	}

	// Create directory structure.
	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"logs",
		"backups",
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write wealthtracker.yaml.
	cfg := config.Default()
	cfg.Currency = currency
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return err
	}

	// Create the database with starter accounts.
	db, err := store.New(filepath.Join(dir, dbFileName))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	accounts := store.NewAccountRepo(db, zerolog.Nop())
	for _, a := range starterAccounts(currency) {
		if err := accounts.Create(&a); err != nil {
			return fmt.Errorf("creating starter account %s: %w", a.Name, err)
		}
	}

	if err := activity.Record(dir, activity.SourceCLI, "init", "", "currency="+currency); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write activity log: %v\n", err)
	}

	// Initialize git and create the initial commit.
	if cfg.Git.AutoCommit {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		hash, err := gitops.CommitAll(dir, "init data directory", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Printf("Initialized wealthtracker data directory at %s (%s)\n", dir, hash)
		return nil
	}

	fmt.Printf("Initialized wealthtracker data directory at %s\n", dir)
	return nil
}

// starterAccounts are created empty so a fresh directory is usable
// immediately.
func starterAccounts(currency string) []model.Account {
	return []model.Account{
		{Name: "Checking", Type: model.AccountTypeChecking, Currency: currency},
		{Name: "Savings", Type: model.AccountTypeSavings, Currency: currency},
	}
}
