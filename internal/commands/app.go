package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/activity"
	"github.com/wealthtracker-dev/wealthtracker/internal/config"
	"github.com/wealthtracker-dev/wealthtracker/internal/logger"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

// dbFileName is the SQLite database inside the data directory.
const dbFileName = "wealthtracker.db"

// app bundles the config, logger, and repositories a command works
// with.
type app struct {
	dataDir string
	cfg     *config.Config
	log     zerolog.Logger
	db      *store.DB

	accounts      *store.AccountRepo
	txs           *store.TransactionRepo
	debts         *store.DebtRepo
	budgets       *store.BudgetRepo
	recurring     *store.RecurringRepo
	notifications *store.NotificationRepo
}

// openApp loads config and opens the database under the data dir. The
// directory must have been initialized first.
func openApp(opts *rootOptions) (*app, error) {
	dataDir, err := filepath.Abs(opts.dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}
	if !isDataDir(dataDir) {
		return nil, fmt.Errorf("%s is not a wealthtracker data directory (run \"wealthtracker init\" first)", dataDir)
	}

	cfg, err := config.LoadOrDefault(filepath.Join(dataDir, config.FileName))
	if err != nil {
		return nil, err
	}
	log := logger.FromConfig(cfg)
	logger.SetGlobalLogger(log)

	db, err := store.New(filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		dataDir:       dataDir,
		cfg:           cfg,
		log:           log,
		db:            db,
		accounts:      store.NewAccountRepo(db, log),
		txs:           store.NewTransactionRepo(db, log),
		debts:         store.NewDebtRepo(db, log),
		budgets:       store.NewBudgetRepo(db, log),
		recurring:     store.NewRecurringRepo(db, log),
		notifications: store.NewNotificationRepo(db, log),
	}, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.db.Close()
}

// isDataDir reports whether dir holds a config file or database.
func isDataDir(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, dbFileName)); err == nil {
		return true
	}
	return false
}

// recordActivity appends to the activity log, warning instead of
// failing the command.
func (a *app) recordActivity(action, entity, details string) {
	if err := activity.Record(a.dataDir, activity.SourceCLI, action, entity, details); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write activity log: %v\n", err)
	}
}
