// Package notify evaluates alert rules against stored data and
// records the notifications they produce.
package notify

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/budget"
	"github.com/wealthtracker-dev/wealthtracker/internal/config"
	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/period"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

// Thresholds tunes the rule engine. A zero threshold disables its
// rule.
type Thresholds struct {
	BudgetWarningPercent decimal.Decimal
	LowBalance           decimal.Decimal
	LargeTransaction     decimal.Decimal
	DueSoonDays          int
}

// ThresholdsFromConfig converts configured float thresholds.
func ThresholdsFromConfig(c config.NotificationsConfig) Thresholds {
	return Thresholds{
		BudgetWarningPercent: decimal.NewFromFloat(c.BudgetWarningPercent),
		LowBalance:           decimal.NewFromFloat(c.LowBalanceThreshold),
		LargeTransaction:     decimal.NewFromFloat(c.LargeTransactionAmount),
		DueSoonDays:          c.DueSoonDays,
	}
}

// Engine evaluates every notification rule.
type Engine struct {
	thresholds    Thresholds
	budgets       *budget.Service
	accounts      *store.AccountRepo
	txs           *store.TransactionRepo
	debts         *store.DebtRepo
	recurring     *store.RecurringRepo
	notifications *store.NotificationRepo
	log           zerolog.Logger
}

// NewEngine creates a rule engine.
func NewEngine(
	thresholds Thresholds,
	budgets *budget.Service,
	accounts *store.AccountRepo,
	txs *store.TransactionRepo,
	debts *store.DebtRepo,
	recurring *store.RecurringRepo,
	notifications *store.NotificationRepo,
	log zerolog.Logger,
) *Engine {
	return &Engine{
		thresholds:    thresholds,
		budgets:       budgets,
		accounts:      accounts,
		txs:           txs,
		debts:         debts,
		recurring:     recurring,
		notifications: notifications,
		log:           log.With().Str("component", "notify").Logger(),
	}
}

// EvaluateAll runs every rule as of the given time and returns the
// notifications that were actually created. Budget rules fire at most
// once per month, the rest at most once per day.
func (e *Engine) EvaluateAll(asOf time.Time) ([]model.Notification, error) {
	var created []model.Notification
	for _, eval := range []func(time.Time) ([]model.Notification, error){
		e.evalBudgets,
		e.evalLowBalances,
		e.evalLargeTransactions,
		e.evalDebtsDue,
		e.evalRecurringDue,
	} {
		ns, err := eval(asOf)
		if err != nil {
			return created, err
		}
		created = append(created, ns...)
	}
	return created, nil
}

// PruneRead deletes read notifications created before the cutoff.
func (e *Engine) PruneRead(olderThan time.Time) (int64, error) {
	return e.notifications.Purge(olderThan)
}

// fire inserts the notification unless the same rule already fired
// for the same subject since the given time.
func (e *Engine) fire(n model.Notification, since time.Time) (*model.Notification, error) {
	seen, err := e.notifications.RecentExists(n.Rule, n.Subject, since)
	if err != nil || seen {
		return nil, err
	}
	if err := e.notifications.Create(&n); err != nil {
		return nil, err
	}
	e.log.Info().Str("rule", n.Rule).Str("subject", n.Subject).Msg("notification created")
	return &n, nil
}

func (e *Engine) evalBudgets(asOf time.Time) ([]model.Notification, error) {
	p := period.FromTime(asOf)
	statuses, err := e.budgets.StatusAll(p)
	if err != nil {
		return nil, err
	}

	var out []model.Notification
	for _, st := range statuses {
		var candidate model.Notification
		switch {
		case st.OverBudget:
			candidate = model.Notification{
				Rule:     model.RuleBudgetExceeded,
				Subject:  st.Category,
				Severity: model.SeverityAlert,
				Message: fmt.Sprintf("%s is over budget: spent %s of %s",
					st.Category, st.Spent.StringFixed(2), st.Limit.StringFixed(2)),
			}
		case e.thresholds.BudgetWarningPercent.IsPositive() &&
			st.PercentUsed.GreaterThanOrEqual(e.thresholds.BudgetWarningPercent):
			candidate = model.Notification{
				Rule:     model.RuleBudgetWarning,
				Subject:  st.Category,
				Severity: model.SeverityWarning,
				Message: fmt.Sprintf("%s is at %s%% of its %s budget",
					st.Category, st.PercentUsed.String(), st.Limit.StringFixed(2)),
			}
		default:
			continue
		}

		n, err := e.fire(candidate, p.Start())
		if err != nil {
			return out, err
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (e *Engine) evalLowBalances(asOf time.Time) ([]model.Notification, error) {
	if !e.thresholds.LowBalance.IsPositive() {
		return nil, nil
	}

	accounts, err := e.accounts.List()
	if err != nil {
		return nil, err
	}

	var out []model.Notification
	for _, a := range accounts {
		// Credit accounts run negative by nature.
		if a.Type == model.AccountTypeCredit {
			continue
		}
		if a.Balance.GreaterThanOrEqual(e.thresholds.LowBalance) {
			continue
		}

		n, err := e.fire(model.Notification{
			Rule:     model.RuleLowBalance,
			Subject:  a.ID,
			Severity: model.SeverityAlert,
			Message: fmt.Sprintf("%s balance %s is below %s",
				a.Name, a.Balance.StringFixed(2), e.thresholds.LowBalance.StringFixed(2)),
		}, dayStart(asOf))
		if err != nil {
			return out, err
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (e *Engine) evalLargeTransactions(asOf time.Time) ([]model.Notification, error) {
	if !e.thresholds.LargeTransaction.IsPositive() {
		return nil, nil
	}

	recent, err := e.txs.List(store.TxFilter{From: dayStart(asOf).AddDate(0, 0, -1)})
	if err != nil {
		return nil, err
	}

	var out []model.Notification
	for _, tx := range recent {
		if tx.Amount.Abs().LessThan(e.thresholds.LargeTransaction) {
			continue
		}

		n, err := e.fire(model.Notification{
			Rule:     model.RuleLargeTransaction,
			Subject:  tx.ID,
			Severity: model.SeverityWarning,
			Message: fmt.Sprintf("large transaction: %s %s on %s",
				tx.Description, tx.Amount.StringFixed(2), tx.Date.Format("2006-01-02")),
		}, dayStart(asOf))
		if err != nil {
			return out, err
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (e *Engine) evalDebtsDue(asOf time.Time) ([]model.Notification, error) {
	if e.thresholds.DueSoonDays <= 0 {
		return nil, nil
	}

	debts, err := e.debts.List()
	if err != nil {
		return nil, err
	}

	today := dayStart(asOf)
	var out []model.Notification
	for _, d := range debts {
		if d.DueDay == 0 || d.Balance.IsZero() {
			continue
		}

		due := nextDueDate(today, d.DueDay)
		days := int(due.Sub(today).Hours() / 24)
		if days > e.thresholds.DueSoonDays {
			continue
		}

		n, err := e.fire(model.Notification{
			Rule:     model.RuleDebtPaymentDue,
			Subject:  d.ID,
			Severity: model.SeverityInfo,
			Message: fmt.Sprintf("%s payment due on %s (minimum %s)",
				d.Name, due.Format("2006-01-02"), d.MinimumPayment.StringFixed(2)),
		}, today)
		if err != nil {
			return out, err
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (e *Engine) evalRecurringDue(asOf time.Time) ([]model.Notification, error) {
	if e.thresholds.DueSoonDays <= 0 {
		return nil, nil
	}

	today := dayStart(asOf)
	upcoming, err := e.recurring.ListDue(today.AddDate(0, 0, e.thresholds.DueSoonDays))
	if err != nil {
		return nil, err
	}

	var out []model.Notification
	for _, rt := range upcoming {
		n, err := e.fire(model.Notification{
			Rule:     model.RuleRecurringDue,
			Subject:  rt.ID,
			Severity: model.SeverityInfo,
			Message: fmt.Sprintf("%s (%s) due on %s",
				rt.Description, rt.Amount.StringFixed(2), rt.NextDate.Format("2006-01-02")),
		}, today)
		if err != nil {
			return out, err
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

// dayStart truncates t to midnight UTC.
func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// dueInMonth clamps a due day to the month's length, so day 31 lands
// on Feb 28 rather than rolling into March.
func dueInMonth(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nextDueDate finds the first due date on or after today.
func nextDueDate(today time.Time, day int) time.Time {
	due := dueInMonth(today.Year(), today.Month(), day)
	if due.Before(today) {
		due = dueInMonth(today.Year(), today.Month()+1, day)
	}
	return due
}
