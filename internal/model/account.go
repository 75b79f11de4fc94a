package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies tracked accounts.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCash       AccountType = "cash"
)

// KnownAccountType reports whether t is one of the supported types.
func KnownAccountType(t AccountType) bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit, AccountTypeInvestment, AccountTypeCash:
		return true
	}
	return false
}

// Account is one tracked account. Balance is kept current by the
// transaction store: every inserted transaction adjusts it.
type Account struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	Institution string          `json:"institution,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
