// Package budget measures monthly spending against per-category
// limits.
package budget

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/period"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

var hundred = decimal.NewFromInt(100)

// Service computes budget status from stored budgets and transactions.
type Service struct {
	budgets *store.BudgetRepo
	txs     *store.TransactionRepo
	log     zerolog.Logger
}

// NewService creates a budget service.
func NewService(budgets *store.BudgetRepo, txs *store.TransactionRepo, log zerolog.Logger) *Service {
	return &Service{
		budgets: budgets,
		txs:     txs,
		log:     log.With().Str("component", "budget").Logger(),
	}
}

// StatusAll returns every budget measured against one month's
// spending, ordered by category.
func (s *Service) StatusAll(p period.Period) ([]model.BudgetStatus, error) {
	budgets, err := s.budgets.List()
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	nets, err := s.categoryNets(p)
	if err != nil {
		return nil, err
	}

	out := make([]model.BudgetStatus, len(budgets))
	for i, b := range budgets {
		out[i] = makeStatus(b, nets[b.Category])
	}
	return out, nil
}

// Status returns one category's budget status for the month.
func (s *Service) Status(category string, p period.Period) (*model.BudgetStatus, error) {
	b, err := s.budgets.Get(category)
	if err != nil {
		return nil, err
	}

	nets, err := s.categoryNets(p)
	if err != nil {
		return nil, err
	}

	status := makeStatus(*b, nets[b.Category])
	return &status, nil
}

func (s *Service) categoryNets(p period.Period) (map[string]decimal.Decimal, error) {
	sums, err := s.txs.SumByCategory(p)
	if err != nil {
		return nil, err
	}
	nets := make(map[string]decimal.Decimal, len(sums))
	for _, cs := range sums {
		nets[cs.Category] = cs.Net
	}
	return nets, nil
}

// makeStatus folds one category's net into a status. Only net outflow
// counts as spending; a refund-heavy month can leave spent at zero.
func makeStatus(b model.Budget, net decimal.Decimal) model.BudgetStatus {
	spent := decimal.Zero
	if net.IsNegative() {
		spent = net.Neg()
	}

	var pct decimal.Decimal
	if b.Limit.IsPositive() {
		pct = spent.Div(b.Limit).Mul(hundred).Round(1)
	}

	return model.BudgetStatus{
		Category:    b.Category,
		Limit:       b.Limit,
		Spent:       spent,
		Remaining:   b.Limit.Sub(spent),
		PercentUsed: pct,
		OverBudget:  spent.GreaterThanOrEqual(b.Limit),
	}
}
