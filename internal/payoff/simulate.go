package payoff

import (
	"sort"

	"github.com/shopspring/decimal"
)

// percent-per-year to fraction-per-month divisor.
var rateDivisor = decimal.NewFromInt(1200)

// ApplyMonthlyPayment computes one month's interest/principal split for
// a single balance. Interest accrues at annualRatePercent/12 rounded to
// cents; principal never exceeds the remaining balance and never goes
// negative, so the returned balance is clamped at zero.
func ApplyMonthlyPayment(balance, annualRatePercent, payment decimal.Decimal) (interest, principal, newBalance decimal.Decimal) {
	interest = balance.Mul(annualRatePercent).Div(rateDivisor).Round(2)
	principal = payment.Sub(interest)
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if principal.GreaterThan(balance) {
		principal = balance
	}
	newBalance = balance.Sub(principal)
	return interest, principal, newBalance
}

// OrderDebts returns debt IDs in the priority order the strategy pays
// them down: snowball ascends by balance, avalanche descends by rate.
// Ties keep input order.
func OrderDebts(debts []Debt, strategy Strategy) []string {
	idx := orderIndices(debts, strategy)
	ids := make([]string, len(idx))
	for i, j := range idx {
		ids[i] = debts[j].ID
	}
	return ids
}

func orderIndices(debts []Debt, strategy Strategy) []int {
	idx := make([]int, len(debts))
	for i := range idx {
		idx[i] = i
	}
	if strategy == Avalanche {
		sort.SliceStable(idx, func(a, b int) bool {
			return debts[idx[a]].AnnualRate.GreaterThan(debts[idx[b]].AnnualRate)
		})
		return idx
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return debts[idx[a]].Balance.LessThan(debts[idx[b]].Balance)
	})
	return idx
}

type debtState struct {
	debt      Debt
	balance   decimal.Decimal
	events    []PaymentEvent
	paidOff   bool
	paidMonth int
}

// Simulate runs one strategy over the debt set: every active debt pays
// its minimum each month, the highest-priority active debt additionally
// absorbs the extra-payment pool, and a cleared debt's minimum rolls
// into the pool from the following month. The run ends when every debt
// is paid or the iteration ceiling is hit, whichever comes first.
//
// The ordering is fixed at the start; cleared debts drop out and the
// relative order of the rest is preserved. Input is never mutated and
// identical plans produce identical results.
func Simulate(plan Plan) (*Result, error) {
	if err := plan.validate(); err != nil {
		return nil, err
	}
	ceiling := plan.MaxMonths
	if ceiling == 0 {
		ceiling = DefaultMaxMonths
	}

	order := orderIndices(plan.Debts, plan.Strategy)
	states := make([]*debtState, len(plan.Debts))
	for i, d := range plan.Debts {
		states[i] = &debtState{debt: d, balance: d.Balance}
	}

	pool := plan.ExtraPayment
	payoffOrder := make([]string, 0, len(states))
	active := 0
	for _, idx := range order {
		st := states[idx]
		if st.balance.IsZero() {
			// Settled on entry: no schedule, minimum freed at once.
			st.paidOff = true
			payoffOrder = append(payoffOrder, st.debt.ID)
			pool = pool.Add(st.debt.MinimumPayment)
			continue
		}
		active++
	}

	month := 0
	for active > 0 && month < ceiling {
		month++

		// The highest-priority debt still active this month absorbs
		// the pool on top of its own minimum.
		focus := -1
		for _, idx := range order {
			if !states[idx].paidOff {
				focus = idx
				break
			}
		}

		freed := decimal.Zero
		for _, idx := range order {
			st := states[idx]
			if st.paidOff {
				continue
			}
			payment := st.debt.MinimumPayment
			if idx == focus {
				payment = payment.Add(pool)
			}
			interest, principal, newBalance := ApplyMonthlyPayment(st.balance, st.debt.AnnualRate, payment)
			if payment.LessThan(interest) {
				// Payment does not cover accrued interest: everything
				// paid is interest and the balance holds.
				interest = payment
			}
			st.events = append(st.events, PaymentEvent{
				Month:     month,
				Payment:   interest.Add(principal),
				Principal: principal,
				Interest:  interest,
				Remaining: newBalance,
			})
			st.balance = newBalance
			if newBalance.IsZero() {
				st.paidOff = true
				st.paidMonth = month
				payoffOrder = append(payoffOrder, st.debt.ID)
				// Rollover: freed minimums join the pool from the
				// next month on.
				freed = freed.Add(st.debt.MinimumPayment)
				active--
			}
		}
		pool = pool.Add(freed)
	}

	res := &Result{
		Strategy:      plan.Strategy,
		PayoffOrder:   payoffOrder,
		Schedules:     make([]Schedule, len(states)),
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
		Incomplete:    active > 0,
	}
	for i, st := range states {
		sch := summarize(st)
		res.Schedules[i] = sch
		res.TotalInterest = res.TotalInterest.Add(sch.TotalInterest)
		res.TotalPaid = res.TotalPaid.Add(sch.TotalPaid)
		if st.paidOff && st.paidMonth > res.Months {
			res.Months = st.paidMonth
		}
	}
	if res.Incomplete {
		res.Months = month
	}
	return res, nil
}

// summarize folds a debt's events into its schedule totals. A stalled
// debt keeps its partial totals and is flagged, never dropped.
func summarize(st *debtState) Schedule {
	sch := Schedule{
		DebtID:        st.debt.ID,
		Events:        st.events,
		Months:        len(st.events),
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
		Stalled:       !st.paidOff,
	}
	for _, ev := range st.events {
		sch.TotalInterest = sch.TotalInterest.Add(ev.Interest)
		sch.TotalPaid = sch.TotalPaid.Add(ev.Payment)
	}
	return sch
}

// Compare runs both strategies over identical inputs and reports the
// interest and month difference. Avalanche is recommended whenever it
// saves interest; equal outcomes fall back to snowball.
func Compare(debts []Debt, extraPayment decimal.Decimal, maxMonths int) (*Comparison, error) {
	snowball, err := Simulate(Plan{Debts: debts, Strategy: Snowball, ExtraPayment: extraPayment, MaxMonths: maxMonths})
	if err != nil {
		return nil, err
	}
	avalanche, err := Simulate(Plan{Debts: debts, Strategy: Avalanche, ExtraPayment: extraPayment, MaxMonths: maxMonths})
	if err != nil {
		return nil, err
	}

	saved := snowball.TotalInterest.Sub(avalanche.TotalInterest)
	recommended := Snowball
	if saved.IsPositive() {
		recommended = Avalanche
	}
	return &Comparison{
		Snowball:      *snowball,
		Avalanche:     *avalanche,
		InterestSaved: saved,
		MonthsSaved:   snowball.Months - avalanche.Months,
		Recommended:   recommended,
	}, nil
}
