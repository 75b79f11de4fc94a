package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/period"
)

// TransactionRepo handles transaction persistence. Inserting a
// transaction and moving its account balance happen in one database
// transaction, so the two can never drift apart.
type TransactionRepo struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTransactionRepo creates a transaction repository.
func NewTransactionRepo(db *DB, log zerolog.Logger) *TransactionRepo {
	return &TransactionRepo{
		db:  db.Conn(),
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

// Create inserts a transaction and adjusts the account balance
// atomically.
func (r *TransactionRepo) Create(t *model.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Category == "" {
		t.Category = model.UncategorizedCategory
	}

	err := WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT INTO transactions (id, account_id, date, description, amount_cents, category, reference, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.AccountID, t.Date.UTC().Format(dateLayout), t.Description,
			centsOf(t.Amount), t.Category, t.Reference, t.Notes,
			t.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}
		return applyDelta(tx, t.AccountID, centsOf(t.Amount))
	})
	if err != nil {
		return err
	}
	r.log.Debug().Str("id", t.ID).Str("account", t.AccountID).Msg("transaction created")
	return nil
}

// TxFilter narrows List results. Zero values mean "any".
type TxFilter struct {
	AccountID string
	Category  string
	From      time.Time
	To        time.Time // exclusive
	Limit     int
}

// List returns transactions matching the filter, newest date first.
func (r *TransactionRepo) List(f TxFilter) ([]model.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.From.UTC().Format(dateLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "date < ?")
		args = append(args, f.To.UTC().Format(dateLayout))
	}

	query := `SELECT id, account_id, date, description, amount_cents, category, reference, notes, created_at
	          FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t         model.Transaction
			date      string
			cents     int64
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &date, &t.Description, &cents,
			&t.Category, &t.Reference, &t.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Date, _ = time.Parse(dateLayout, date)
		t.Amount = fromCents(cents)
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReferenceExists reports whether an import reference was seen before.
func (r *TransactionRepo) ReferenceExists(reference string) (bool, error) {
	if reference == "" {
		return false, nil
	}
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE reference = ?`, reference).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking reference: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of stored transactions.
func (r *TransactionRepo) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}

// CategorySum is one category's net amount over a period. Net is
// signed: spending-heavy categories come out negative.
type CategorySum struct {
	Category string          `json:"category"`
	Net      decimal.Decimal `json:"net"`
}

// SumByCategory returns per-category net sums for one month, ordered
// by category.
func (r *TransactionRepo) SumByCategory(p period.Period) ([]CategorySum, error) {
	return r.SumByCategoryRange(p, p)
}

// SumByCategoryRange returns per-category net sums across [from, to]
// inclusive, ordered by category.
func (r *TransactionRepo) SumByCategoryRange(from, to period.Period) ([]CategorySum, error) {
	rows, err := r.db.Query(
		`SELECT category, SUM(amount_cents)
		 FROM transactions
		 WHERE date >= ? AND date < ?
		 GROUP BY category
		 ORDER BY category`,
		from.Start().Format(dateLayout), to.End().Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("summing by category: %w", err)
	}
	defer rows.Close()

	var out []CategorySum
	for rows.Next() {
		var (
			cs    CategorySum
			cents int64
		)
		if err := rows.Scan(&cs.Category, &cents); err != nil {
			return nil, fmt.Errorf("scanning category sum: %w", err)
		}
		cs.Net = fromCents(cents)
		out = append(out, cs)
	}
	return out, rows.Err()
}

// MonthlyFlow is one month's income/expense aggregate.
type MonthlyFlow struct {
	Period  period.Period   `json:"-"`
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyNet aggregates income and expenses per calendar month across
// [from, to]. Months with no transactions are absent from the result.
func (r *TransactionRepo) MonthlyNet(from, to period.Period) ([]MonthlyFlow, error) {
	rows, err := r.db.Query(
		`SELECT substr(date, 1, 7) AS month,
		        SUM(CASE WHEN amount_cents > 0 THEN amount_cents ELSE 0 END),
		        SUM(CASE WHEN amount_cents < 0 THEN -amount_cents ELSE 0 END)
		 FROM transactions
		 WHERE date >= ? AND date < ?
		 GROUP BY month
		 ORDER BY month`,
		from.Start().Format(dateLayout), to.End().Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("aggregating monthly net: %w", err)
	}
	defer rows.Close()

	var out []MonthlyFlow
	for rows.Next() {
		var (
			mf              MonthlyFlow
			income, expense int64
		)
		if err := rows.Scan(&mf.Month, &income, &expense); err != nil {
			return nil, fmt.Errorf("scanning monthly net: %w", err)
		}
		p, err := period.Parse(mf.Month)
		if err != nil {
			r.log.Warn().Str("month", mf.Month).Msg("skipping unparseable month bucket")
			continue
		}
		mf.Period = p
		mf.Income = fromCents(income)
		mf.Expense = fromCents(expense)
		mf.Net = fromCents(income - expense)
		out = append(out, mf)
	}
	return out, rows.Err()
}
