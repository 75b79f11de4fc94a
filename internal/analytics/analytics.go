// Package analytics computes read-side summaries: monthly flows,
// category breakdowns, spending statistics, and the dashboard
// aggregate.
package analytics

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/period"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

var hundred = decimal.NewFromInt(100)

// Service answers analytics queries from stored data.
type Service struct {
	accounts      *store.AccountRepo
	txs           *store.TransactionRepo
	debts         *store.DebtRepo
	notifications *store.NotificationRepo
	log           zerolog.Logger
}

// NewService creates an analytics service.
func NewService(accounts *store.AccountRepo, txs *store.TransactionRepo, debts *store.DebtRepo, notifications *store.NotificationRepo, log zerolog.Logger) *Service {
	return &Service{
		accounts:      accounts,
		txs:           txs,
		debts:         debts,
		notifications: notifications,
		log:           log.With().Str("component", "analytics").Logger(),
	}
}

// Summary is one month's totals.
type Summary struct {
	Month       string          `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Net         decimal.Decimal `json:"net"`
	SavingsRate decimal.Decimal `json:"savings_rate"`
}

// MonthlySummary returns one month's totals. A month with no
// transactions comes back as zeros.
func (s *Service) MonthlySummary(p period.Period) (*Summary, error) {
	flows, err := s.txs.MonthlyNet(p, p)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Month: p.Format()}
	if len(flows) == 0 {
		return sum, nil
	}

	f := flows[0]
	sum.Income = f.Income
	sum.Expenses = f.Expense
	sum.Net = f.Net
	sum.SavingsRate = savingsRate(f.Income, f.Net)
	return sum, nil
}

// savingsRate is the percent of income kept: net / income * 100.
func savingsRate(income, net decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return net.Div(income).Mul(hundred).Round(1)
}

// Breakdown returns per-category nets across [from, to] inclusive.
func (s *Service) Breakdown(from, to period.Period) ([]store.CategorySum, error) {
	return s.txs.SumByCategoryRange(from, to)
}

// CashFlow returns a continuous monthly series for the n months
// ending at end. Months without activity appear as zero rows.
func (s *Service) CashFlow(end period.Period, months int) ([]store.MonthlyFlow, error) {
	if months < 1 {
		return nil, fmt.Errorf("months must be positive, got %d", months)
	}

	periods := period.Range(end, months)
	flows, err := s.txs.MonthlyNet(periods[0], end)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]store.MonthlyFlow, len(flows))
	for _, f := range flows {
		byMonth[f.Month] = f
	}

	out := make([]store.MonthlyFlow, len(periods))
	for i, p := range periods {
		if f, ok := byMonth[p.Format()]; ok {
			out[i] = f
			continue
		}
		out[i] = store.MonthlyFlow{Period: p, Month: p.Format()}
	}
	return out, nil
}

// SpendingStats summarizes monthly expense totals over a window.
type SpendingStats struct {
	Months int             `json:"months"`
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"std_dev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Median decimal.Decimal `json:"median"`
	P90    decimal.Decimal `json:"p90"`
}

// SpendingStats summarizes monthly expenses for the n months ending
// at end.
func (s *Service) SpendingStats(end period.Period, months int) (*SpendingStats, error) {
	flows, err := s.CashFlow(end, months)
	if err != nil {
		return nil, err
	}

	series := make([]float64, len(flows))
	for i, f := range flows {
		series[i] = f.Expense.InexactFloat64()
	}

	min, max := MinMax(series)
	return &SpendingStats{
		Months: len(series),
		Mean:   money(Mean(series)),
		StdDev: money(StdDev(series)),
		Min:    money(min),
		Max:    money(max),
		Median: money(Quantile(0.5, series)),
		P90:    money(Quantile(0.9, series)),
	}, nil
}

// TrendPoint is one month of the smoothed net series.
type TrendPoint struct {
	Month string          `json:"month"`
	Net   decimal.Decimal `json:"net"`
	SMA   decimal.Decimal `json:"sma"`
	EMA   decimal.Decimal `json:"ema"`
}

// Trend smooths the monthly net series with a moving-average window.
// Points earlier than one full window carry zero averages.
func (s *Service) Trend(end period.Period, months, window int) ([]TrendPoint, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	if window > months {
		return nil, fmt.Errorf("window %d exceeds series length %d", window, months)
	}

	flows, err := s.CashFlow(end, months)
	if err != nil {
		return nil, err
	}

	series := make([]float64, len(flows))
	for i, f := range flows {
		series[i] = f.Net.InexactFloat64()
	}

	sma := Sma(series, window)
	ema := Ema(series, window)

	out := make([]TrendPoint, len(flows))
	for i, f := range flows {
		out[i] = TrendPoint{
			Month: f.Month,
			Net:   f.Net,
			SMA:   money(sma[i]),
			EMA:   money(ema[i]),
		}
	}
	return out, nil
}

// Dashboard is the landing-page aggregate.
type Dashboard struct {
	NetWorth     decimal.Decimal `json:"net_worth"`
	AccountTotal decimal.Decimal `json:"account_total"`
	DebtTotal    decimal.Decimal `json:"debt_total"`
	Accounts     int             `json:"accounts"`
	Debts        int             `json:"debts"`
	Month        *Summary        `json:"month"`
	UnreadAlerts int             `json:"unread_alerts"`
}

// Dashboard aggregates balances, debt, the current month, and unread
// alerts into one response.
func (s *Service) Dashboard(p period.Period) (*Dashboard, error) {
	accounts, err := s.accounts.List()
	if err != nil {
		return nil, err
	}
	debts, err := s.debts.List()
	if err != nil {
		return nil, err
	}
	month, err := s.MonthlySummary(p)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread()
	if err != nil {
		return nil, err
	}

	var accountTotal, debtTotal decimal.Decimal
	for _, a := range accounts {
		accountTotal = accountTotal.Add(a.Balance)
	}
	for _, d := range debts {
		debtTotal = debtTotal.Add(d.Balance)
	}

	return &Dashboard{
		NetWorth:     accountTotal.Sub(debtTotal),
		AccountTotal: accountTotal,
		DebtTotal:    debtTotal,
		Accounts:     len(accounts),
		Debts:        len(debts),
		Month:        month,
		UnreadAlerts: unread,
	}, nil
}

// money rounds a float computation back to cents.
func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
