package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/payoff"
)

// Debt is one tracked liability: a credit card, loan, or other balance
// being paid down.
type Debt struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	DueDay         int             `json:"due_day,omitempty"` // 1-31, 0 = unset
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Payoff converts the stored debt into simulation input.
func (d Debt) Payoff() payoff.Debt {
	return payoff.Debt{
		ID:             d.ID,
		Balance:        d.Balance,
		AnnualRate:     d.AnnualRate,
		MinimumPayment: d.MinimumPayment,
	}
}

// PayoffDebts converts a stored debt list into simulation input,
// preserving order.
func PayoffDebts(debts []Debt) []payoff.Debt {
	out := make([]payoff.Debt, len(debts))
	for i, d := range debts {
		out[i] = d.Payoff()
	}
	return out
}
