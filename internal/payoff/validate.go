package payoff

import "fmt"

// ValidateDebts rejects malformed debt input before any simulation
// arithmetic runs. Negative amounts, blank IDs, and duplicate IDs all
// wrap ErrInvalidInput.
func ValidateDebts(debts []Debt) error {
	seen := make(map[string]bool, len(debts))
	for i, d := range debts {
		if d.ID == "" {
			return fmt.Errorf("%w: debt %d has empty ID", ErrInvalidInput, i)
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate debt ID %q", ErrInvalidInput, d.ID)
		}
		seen[d.ID] = true
		if d.Balance.IsNegative() {
			return fmt.Errorf("%w: debt %q has negative balance %s", ErrInvalidInput, d.ID, d.Balance)
		}
		if d.AnnualRate.IsNegative() {
			return fmt.Errorf("%w: debt %q has negative interest rate %s", ErrInvalidInput, d.ID, d.AnnualRate)
		}
		if d.MinimumPayment.IsNegative() {
			return fmt.Errorf("%w: debt %q has negative minimum payment %s", ErrInvalidInput, d.ID, d.MinimumPayment)
		}
	}
	return nil
}

func (p Plan) validate() error {
	if err := ValidateDebts(p.Debts); err != nil {
		return err
	}
	if p.ExtraPayment.IsNegative() {
		return fmt.Errorf("%w: negative extra payment %s", ErrInvalidInput, p.ExtraPayment)
	}
	if p.MaxMonths < 0 {
		return fmt.Errorf("%w: negative iteration ceiling %d", ErrInvalidInput, p.MaxMonths)
	}
	if _, err := ParseStrategy(string(p.Strategy)); err != nil {
		return err
	}
	return nil
}
