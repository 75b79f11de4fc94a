package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

// DebtRepo handles debt persistence.
type DebtRepo struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewDebtRepo creates a debt repository.
func NewDebtRepo(db *DB, log zerolog.Logger) *DebtRepo {
	return &DebtRepo{
		db:  db.Conn(),
		log: log.With().Str("repo", "debts").Logger(),
	}
}

// Create inserts a new debt.
func (r *DebtRepo) Create(d *model.Debt) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO debts (id, name, balance_cents, annual_rate, minimum_payment_cents, due_day, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, centsOf(d.Balance), d.AnnualRate.String(), centsOf(d.MinimumPayment),
		d.DueDay, d.CreatedAt.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting debt: %w", err)
	}
	r.log.Debug().Str("id", d.ID).Str("name", d.Name).Msg("debt created")
	return nil
}

// Get returns one debt or ErrNotFound.
func (r *DebtRepo) Get(id string) (*model.Debt, error) {
	row := r.db.QueryRow(
		`SELECT id, name, balance_cents, annual_rate, minimum_payment_cents, due_day, created_at, updated_at
		 FROM debts WHERE id = ?`, id)
	d, err := scanDebt(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("debt %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting debt: %w", err)
	}
	return d, nil
}

// List returns all debts, oldest first. The simulation relies on this
// order being stable: it is the tie-break for equal balances or rates.
func (r *DebtRepo) List() ([]model.Debt, error) {
	rows, err := r.db.Query(
		`SELECT id, name, balance_cents, annual_rate, minimum_payment_cents, due_day, created_at, updated_at
		 FROM debts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing debts: %w", err)
	}
	defer rows.Close()

	var out []model.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning debt: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Update persists changed debt fields and bumps updated_at.
func (r *DebtRepo) Update(d *model.Debt) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := r.db.Exec(
		`UPDATE debts SET name = ?, balance_cents = ?, annual_rate = ?, minimum_payment_cents = ?, due_day = ?, updated_at = ?
		 WHERE id = ?`,
		d.Name, centsOf(d.Balance), d.AnnualRate.String(), centsOf(d.MinimumPayment),
		d.DueDay, d.UpdatedAt.Format(time.RFC3339), d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating debt: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("debt %s: %w", d.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a debt.
func (r *DebtRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting debt: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("debt %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanDebt(row rowScanner) (*model.Debt, error) {
	var (
		d                    model.Debt
		balCents, minCents   int64
		rate                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&d.ID, &d.Name, &balCents, &rate, &minCents, &d.DueDay, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.Balance = fromCents(balCents)
	d.MinimumPayment = fromCents(minCents)
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("parsing stored rate %q: %w", rate, err)
	}
	d.AnnualRate = parsed
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &d, nil
}
