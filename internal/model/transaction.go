package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedCategory is assigned when a transaction arrives with no
// category of its own.
const UncategorizedCategory = "uncategorized"

// Transaction is one money movement against an account.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // negative = expense, positive = income
	Category    string          `json:"category"`
	Reference   string          `json:"reference,omitempty"` // import dedup key
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BankTransaction represents a parsed bank CSV row before it becomes a
// stored Transaction.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Category    string
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}
