package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

// AccountRepo handles account persistence.
type AccountRepo struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewAccountRepo creates an account repository.
func NewAccountRepo(db *DB, log zerolog.Logger) *AccountRepo {
	return &AccountRepo{
		db:  db.Conn(),
		log: log.With().Str("repo", "accounts").Logger(),
	}
}

// Create inserts a new account, assigning an ID and creation time when
// unset.
func (r *AccountRepo) Create(a *model.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO accounts (id, name, type, currency, balance_cents, institution, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Currency, centsOf(a.Balance), a.Institution,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	r.log.Debug().Str("id", a.ID).Str("name", a.Name).Msg("account created")
	return nil
}

// Get returns one account or ErrNotFound.
func (r *AccountRepo) Get(id string) (*model.Account, error) {
	row := r.db.QueryRow(
		`SELECT id, name, type, currency, balance_cents, institution, created_at
		 FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// List returns all accounts, oldest first.
func (r *AccountRepo) List() ([]model.Account, error) {
	rows, err := r.db.Query(
		`SELECT id, name, type, currency, balance_cents, institution, created_at
		 FROM accounts ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Delete removes an account and, through the schema's cascade, its
// transactions.
func (r *AccountRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return nil
}

// applyDelta shifts an account balance inside an open transaction.
func applyDelta(tx *sql.Tx, accountID string, deltaCents int64) error {
	res, err := tx.Exec(
		`UPDATE accounts SET balance_cents = balance_cents + ? WHERE id = ?`,
		deltaCents, accountID)
	if err != nil {
		return fmt.Errorf("adjusting balance: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		a         model.Account
		accType   string
		cents     int64
		createdAt string
	)
	if err := row.Scan(&a.ID, &a.Name, &accType, &a.Currency, &cents, &a.Institution, &createdAt); err != nil {
		return nil, err
	}
	a.Type = model.AccountType(accType)
	a.Balance = fromCents(cents)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}
