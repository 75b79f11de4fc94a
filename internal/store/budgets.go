package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

// BudgetRepo handles budget persistence. One budget per category.
type BudgetRepo struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewBudgetRepo creates a budget repository.
func NewBudgetRepo(db *DB, log zerolog.Logger) *BudgetRepo {
	return &BudgetRepo{
		db:  db.Conn(),
		log: log.With().Str("repo", "budgets").Logger(),
	}
}

// Upsert creates or replaces the budget for a category.
func (r *BudgetRepo) Upsert(b *model.Budget) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		`INSERT INTO budgets (id, category, limit_cents, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(category) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.ID, b.Category, centsOf(b.Limit), b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting budget: %w", err)
	}
	return nil
}

// Get returns the budget for a category or ErrNotFound.
func (r *BudgetRepo) Get(category string) (*model.Budget, error) {
	row := r.db.QueryRow(
		`SELECT id, category, limit_cents, created_at FROM budgets WHERE category = ?`, category)
	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget for %s: %w", category, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting budget: %w", err)
	}
	return b, nil
}

// List returns all budgets ordered by category.
func (r *BudgetRepo) List() ([]model.Budget, error) {
	rows, err := r.db.Query(
		`SELECT id, category, limit_cents, created_at FROM budgets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var out []model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Delete removes a category's budget.
func (r *BudgetRepo) Delete(category string) error {
	res, err := r.db.Exec(`DELETE FROM budgets WHERE category = ?`, category)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("budget for %s: %w", category, ErrNotFound)
	}
	return nil
}

func scanBudget(row rowScanner) (*model.Budget, error) {
	var (
		b         model.Budget
		cents     int64
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.Category, &cents, &createdAt); err != nil {
		return nil, err
	}
	b.Limit = fromCents(cents)
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &b, nil
}
