package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

// RecurringRepo handles recurring transaction templates.
type RecurringRepo struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRecurringRepo creates a recurring-transaction repository.
func NewRecurringRepo(db *DB, log zerolog.Logger) *RecurringRepo {
	return &RecurringRepo{
		db:  db.Conn(),
		log: log.With().Str("repo", "recurring").Logger(),
	}
}

// Create inserts a new recurring template.
func (r *RecurringRepo) Create(rt *model.RecurringTransaction) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO recurring_transactions (id, account_id, description, amount_cents, category, frequency, next_date, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.AccountID, rt.Description, centsOf(rt.Amount), rt.Category,
		string(rt.Frequency), rt.NextDate.UTC().Format(dateLayout), boolToInt(rt.Active),
		rt.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting recurring transaction: %w", err)
	}
	return nil
}

// List returns all templates, due-soonest first.
func (r *RecurringRepo) List() ([]model.RecurringTransaction, error) {
	return r.query(
		`SELECT id, account_id, description, amount_cents, category, frequency, next_date, active, created_at
		 FROM recurring_transactions ORDER BY next_date, id`)
}

// ListDue returns active templates whose next date is on or before
// asOf.
func (r *RecurringRepo) ListDue(asOf time.Time) ([]model.RecurringTransaction, error) {
	return r.query(
		`SELECT id, account_id, description, amount_cents, category, frequency, next_date, active, created_at
		 FROM recurring_transactions
		 WHERE active = 1 AND next_date <= ?
		 ORDER BY next_date, id`,
		asOf.UTC().Format(dateLayout))
}

// Advance moves a template's next due date forward.
func (r *RecurringRepo) Advance(id string, nextDate time.Time) error {
	res, err := r.db.Exec(
		`UPDATE recurring_transactions SET next_date = ? WHERE id = ?`,
		nextDate.UTC().Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("advancing recurring transaction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("recurring transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

// Deactivate stops a template from materializing.
func (r *RecurringRepo) Deactivate(id string) error {
	res, err := r.db.Exec(
		`UPDATE recurring_transactions SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivating recurring transaction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("recurring transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a template.
func (r *RecurringRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM recurring_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting recurring transaction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("recurring transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *RecurringRepo) query(q string, args ...any) ([]model.RecurringTransaction, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []model.RecurringTransaction
	for rows.Next() {
		var (
			rt        model.RecurringTransaction
			cents     int64
			freq      string
			nextDate  string
			active    int
			createdAt string
		)
		if err := rows.Scan(&rt.ID, &rt.AccountID, &rt.Description, &cents, &rt.Category,
			&freq, &nextDate, &active, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning recurring transaction: %w", err)
		}
		rt.Amount = fromCents(cents)
		rt.Frequency = model.Frequency(freq)
		rt.NextDate, _ = time.Parse(dateLayout, nextDate)
		rt.Active = active != 0
		rt.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, rt)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
