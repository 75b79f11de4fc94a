package model

import "time"

// Severity ranks notifications for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

// Notification rule names.
const (
	RuleBudgetExceeded   = "budget-exceeded"
	RuleBudgetWarning    = "budget-warning"
	RuleLowBalance       = "low-balance"
	RuleLargeTransaction = "large-transaction"
	RuleDebtPaymentDue   = "debt-payment-due"
	RuleRecurringDue     = "recurring-due"
)

// Notification is one alert produced by the rule engine. Subject
// identifies what it is about (category, account ID, debt ID) so the
// engine can avoid firing the same rule twice for the same thing.
type Notification struct {
	ID        string     `json:"id"`
	Rule      string     `json:"rule"`
	Subject   string     `json:"subject"`
	Severity  Severity   `json:"severity"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
