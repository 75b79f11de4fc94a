// Package exporter renders stored data as CSV or JSON, for ad-hoc
// exports and for the backup job's snapshot directory.
package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Service reads from the store and writes export files.
type Service struct {
	accounts *store.AccountRepo
	txs      *store.TransactionRepo
	debts    *store.DebtRepo
	budgets  *store.BudgetRepo
	log      zerolog.Logger
}

// NewService creates an export service.
func NewService(accounts *store.AccountRepo, txs *store.TransactionRepo, debts *store.DebtRepo, budgets *store.BudgetRepo, log zerolog.Logger) *Service {
	return &Service{
		accounts: accounts,
		txs:      txs,
		debts:    debts,
		budgets:  budgets,
		log:      log.With().Str("component", "exporter").Logger(),
	}
}

// Transactions writes filtered transactions to w in the given format.
func (s *Service) Transactions(w io.Writer, filter store.TxFilter, format Format) error {
	txns, err := s.txs.List(filter)
	if err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(w, txns)
	}
	return WriteTransactions(w, txns)
}

// Accounts writes all accounts to w in the given format.
func (s *Service) Accounts(w io.Writer, format Format) error {
	accounts, err := s.accounts.List()
	if err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(w, accounts)
	}
	return WriteAccounts(w, accounts)
}

// Snapshot writes accounts, transactions, debts, and budgets as CSVs
// into dir. The backup job pairs this with a database snapshot.
func (s *Service) Snapshot(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	accounts, err := s.accounts.List()
	if err != nil {
		return err
	}
	txns, err := s.txs.List(store.TxFilter{})
	if err != nil {
		return err
	}
	debts, err := s.debts.List()
	if err != nil {
		return err
	}
	budgets, err := s.budgets.List()
	if err != nil {
		return err
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"accounts.csv", func(w io.Writer) error { return WriteAccounts(w, accounts) }},
		{"transactions.csv", func(w io.Writer) error { return WriteTransactions(w, txns) }},
		{"debts.csv", func(w io.Writer) error { return WriteDebts(w, debts) }},
		{"budgets.csv", func(w io.Writer) error { return WriteBudgets(w, budgets) }},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}

	s.log.Info().Str("dir", dir).Int("transactions", len(txns)).Msg("snapshot exported")
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
