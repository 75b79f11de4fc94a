package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// JoinValidation folds field errors into one error, or nil when clean.
func JoinValidation(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// centPrecise reports whether d has at most 2 decimal places.
func centPrecise(d decimal.Decimal) bool {
	hundred := decimal.NewFromInt(100)
	return d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}

// Validate checks an account before it is stored.
func (a Account) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "must not be empty"})
	}
	if !KnownAccountType(a.Type) {
		errs = append(errs, ValidationError{Field: "type", Message: fmt.Sprintf("unknown account type %q", a.Type)})
	}
	if len(a.Currency) != 3 {
		errs = append(errs, ValidationError{Field: "currency", Message: fmt.Sprintf("%q is not a 3-letter currency code", a.Currency)})
	}
	if !centPrecise(a.Balance) {
		errs = append(errs, ValidationError{Field: "balance", Message: fmt.Sprintf("%s has more than 2 decimal places", a.Balance)})
	}
	return errs
}

// Validate checks a transaction before it is stored.
func (t Transaction) Validate() []ValidationError {
	var errs []ValidationError
	if t.AccountID == "" {
		errs = append(errs, ValidationError{Field: "account_id", Message: "must not be empty"})
	}
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, ValidationError{Field: "description", Message: "must not be empty"})
	}
	if t.Amount.IsZero() {
		errs = append(errs, ValidationError{Field: "amount", Message: "must not be zero"})
	}
	if !centPrecise(t.Amount) {
		errs = append(errs, ValidationError{Field: "amount", Message: fmt.Sprintf("%s has more than 2 decimal places", t.Amount)})
	}
	if t.Date.IsZero() {
		errs = append(errs, ValidationError{Field: "date", Message: "must be set"})
	}
	return errs
}

// Validate checks a debt before it is stored or simulated.
func (d Debt) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "must not be empty"})
	}
	if d.Balance.IsNegative() {
		errs = append(errs, ValidationError{Field: "balance", Message: "must not be negative"})
	}
	if d.AnnualRate.IsNegative() {
		errs = append(errs, ValidationError{Field: "annual_rate", Message: "must not be negative"})
	}
	if d.MinimumPayment.IsNegative() {
		errs = append(errs, ValidationError{Field: "minimum_payment", Message: "must not be negative"})
	}
	if !centPrecise(d.Balance) {
		errs = append(errs, ValidationError{Field: "balance", Message: fmt.Sprintf("%s has more than 2 decimal places", d.Balance)})
	}
	if !centPrecise(d.MinimumPayment) {
		errs = append(errs, ValidationError{Field: "minimum_payment", Message: fmt.Sprintf("%s has more than 2 decimal places", d.MinimumPayment)})
	}
	if d.DueDay < 0 || d.DueDay > 31 {
		errs = append(errs, ValidationError{Field: "due_day", Message: "must be between 1 and 31 when set"})
	}
	return errs
}

// Validate checks a budget before it is stored.
func (b Budget) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(b.Category) == "" {
		errs = append(errs, ValidationError{Field: "category", Message: "must not be empty"})
	}
	if !b.Limit.IsPositive() {
		errs = append(errs, ValidationError{Field: "limit", Message: "must be positive"})
	}
	if !centPrecise(b.Limit) {
		errs = append(errs, ValidationError{Field: "limit", Message: fmt.Sprintf("%s has more than 2 decimal places", b.Limit)})
	}
	return errs
}

// Validate checks a recurring transaction template.
func (r RecurringTransaction) Validate() []ValidationError {
	var errs []ValidationError
	if r.AccountID == "" {
		errs = append(errs, ValidationError{Field: "account_id", Message: "must not be empty"})
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, ValidationError{Field: "description", Message: "must not be empty"})
	}
	if r.Amount.IsZero() {
		errs = append(errs, ValidationError{Field: "amount", Message: "must not be zero"})
	}
	if !centPrecise(r.Amount) {
		errs = append(errs, ValidationError{Field: "amount", Message: fmt.Sprintf("%s has more than 2 decimal places", r.Amount)})
	}
	if !KnownFrequency(r.Frequency) {
		errs = append(errs, ValidationError{Field: "frequency", Message: fmt.Sprintf("unknown frequency %q", r.Frequency)})
	}
	if r.NextDate.IsZero() {
		errs = append(errs, ValidationError{Field: "next_date", Message: "must be set"})
	}
	return errs
}
