// Package payoff simulates debt payoff strategies. It projects
// month-by-month amortization schedules for a set of debts under the
// snowball or avalanche ordering and compares the two outcomes.
package payoff

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy selects which debt receives the extra-payment pool each month.
type Strategy string

const (
	// Snowball pays smallest balance first.
	Snowball Strategy = "snowball"
	// Avalanche pays highest interest rate first.
	Avalanche Strategy = "avalanche"
)

// DefaultMaxMonths bounds a simulation at 50 years. A run that has not
// cleared every debt by then is reported as incomplete instead of
// looping forever on payments that never cover interest.
const DefaultMaxMonths = 600

// ErrInvalidInput rejects malformed simulation input: negative amounts,
// empty or duplicate debt IDs, or an unknown strategy.
var ErrInvalidInput = errors.New("invalid input")

// ParseStrategy converts a string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Snowball:
		return Snowball, nil
	case Avalanche:
		return Avalanche, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, s)
	}
}

// Debt is one liability at simulation start. The engine never mutates
// it; balances evolve on internal copies only.
type Debt struct {
	ID             string          `json:"id"`
	Balance        decimal.Decimal `json:"balance"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
}

// PaymentEvent records one month of payments against one debt.
// Payment = Principal + Interest exactly, and Remaining is the prior
// balance less Principal, clamped at zero.
type PaymentEvent struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Remaining decimal.Decimal `json:"remaining_balance"`
}

// Schedule is the full projection for a single debt.
type Schedule struct {
	DebtID        string          `json:"debt_id"`
	Events        []PaymentEvent  `json:"events"`
	Months        int             `json:"months"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	// Stalled marks a debt that did not reach zero balance within the
	// iteration ceiling. Its totals are partial, not omitted.
	Stalled bool `json:"stalled"`
}

// Result is the outcome of one strategy run. Schedules are in input
// order; PayoffOrder lists debt IDs in the order they reached zero.
type Result struct {
	Strategy      Strategy        `json:"strategy"`
	PayoffOrder   []string        `json:"payoff_order"`
	Schedules     []Schedule      `json:"schedules"`
	Months        int             `json:"months"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	// Incomplete is set when the iteration ceiling was hit with debts
	// still active.
	Incomplete bool `json:"incomplete"`
}

// ScheduleFor returns the schedule for a debt ID.
func (r *Result) ScheduleFor(id string) (Schedule, bool) {
	for _, s := range r.Schedules {
		if s.DebtID == id {
			return s, true
		}
	}
	return Schedule{}, false
}

// Plan describes one simulation request. MaxMonths of zero means
// DefaultMaxMonths.
type Plan struct {
	Debts        []Debt          `json:"debts"`
	Strategy     Strategy        `json:"strategy"`
	ExtraPayment decimal.Decimal `json:"extra_payment"`
	MaxMonths    int             `json:"max_months,omitempty"`
}

// Comparison holds both strategy runs over identical inputs.
// InterestSaved and MonthsSaved are snowball minus avalanche.
type Comparison struct {
	Snowball      Result          `json:"snowball"`
	Avalanche     Result          `json:"avalanche"`
	InterestSaved decimal.Decimal `json:"interest_saved"`
	MonthsSaved   int             `json:"months_saved"`
	Recommended   Strategy        `json:"recommended"`
}
