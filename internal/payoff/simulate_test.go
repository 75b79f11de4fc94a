package payoff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func debt(id, balance, rate, minimum string) Debt {
	return Debt{ID: id, Balance: dec(balance), AnnualRate: dec(rate), MinimumPayment: dec(minimum)}
}

// divergentDebts orders differently per strategy: "a" has the smallest
// balance, "b" the highest rate.
func divergentDebts() []Debt {
	return []Debt{
		debt("a", "1000", "5", "50"),
		debt("b", "4000", "22", "120"),
	}
}

func TestApplyMonthlyPayment_SplitsInterestAndPrincipal(t *testing.T) {
	interest, principal, balance := ApplyMonthlyPayment(dec("1200"), dec("12"), dec("110"))
	assert.True(t, interest.Equal(dec("12.00")), "interest %s", interest)
	assert.True(t, principal.Equal(dec("98.00")), "principal %s", principal)
	assert.True(t, balance.Equal(dec("1102.00")), "balance %s", balance)
}

func TestApplyMonthlyPayment_FinalMonthClampsToBalance(t *testing.T) {
	interest, principal, balance := ApplyMonthlyPayment(dec("66.45"), dec("12"), dec("110"))
	assert.True(t, interest.Equal(dec("0.66")))
	assert.True(t, principal.Equal(dec("66.45")), "principal never exceeds balance")
	assert.True(t, balance.IsZero())
}

func TestApplyMonthlyPayment_PaymentBelowInterest(t *testing.T) {
	interest, principal, balance := ApplyMonthlyPayment(dec("1000"), dec("24"), dec("15"))
	assert.True(t, interest.Equal(dec("20.00")))
	assert.True(t, principal.IsZero(), "principal floors at zero")
	assert.True(t, balance.Equal(dec("1000")), "balance holds")
}

func TestApplyMonthlyPayment_ZeroRate(t *testing.T) {
	interest, principal, balance := ApplyMonthlyPayment(dec("100"), dec("0"), dec("30"))
	assert.True(t, interest.IsZero())
	assert.True(t, principal.Equal(dec("30")))
	assert.True(t, balance.Equal(dec("70")))
}

func TestOrderDebts_SnowballAscendsByBalance(t *testing.T) {
	debts := []Debt{
		debt("big", "9000", "5", "90"),
		debt("small", "400", "10", "40"),
		debt("mid", "2500", "20", "60"),
	}
	assert.Equal(t, []string{"small", "mid", "big"}, OrderDebts(debts, Snowball))
}

func TestOrderDebts_AvalancheDescendsByRate(t *testing.T) {
	debts := []Debt{
		debt("big", "9000", "5", "90"),
		debt("small", "400", "10", "40"),
		debt("mid", "2500", "20", "60"),
	}
	assert.Equal(t, []string{"mid", "small", "big"}, OrderDebts(debts, Avalanche))
}

func TestOrderDebts_TiesKeepInputOrder(t *testing.T) {
	debts := []Debt{
		debt("first", "1000", "10", "30"),
		debt("second", "1000", "10", "30"),
		debt("third", "1000", "10", "30"),
	}
	want := []string{"first", "second", "third"}
	assert.Equal(t, want, OrderDebts(debts, Snowball))
	assert.Equal(t, want, OrderDebts(debts, Avalanche))
}

func TestSimulate_SingleDebtConverges(t *testing.T) {
	res, err := Simulate(Plan{
		Debts:    []Debt{debt("card", "1200", "12", "110")},
		Strategy: Snowball,
	})
	require.NoError(t, err)

	assert.False(t, res.Incomplete)
	assert.Equal(t, 12, res.Months)
	assert.Equal(t, []string{"card"}, res.PayoffOrder)
	assert.True(t, res.TotalInterest.Equal(dec("77.11")), "interest %s", res.TotalInterest)
	assert.True(t, res.TotalPaid.Equal(dec("1277.11")), "paid %s", res.TotalPaid)

	sch, ok := res.ScheduleFor("card")
	require.True(t, ok)
	assert.False(t, sch.Stalled)
	assert.Equal(t, 12, sch.Months)
	require.Len(t, sch.Events, 12)
	assert.True(t, sch.Events[0].Interest.Equal(dec("12.00")))
	assert.True(t, sch.Events[11].Remaining.IsZero())
}

func TestSimulate_EventsConserveMoney(t *testing.T) {
	res, err := Simulate(Plan{
		Debts:        divergentDebts(),
		Strategy:     Snowball,
		ExtraPayment: dec("150"),
	})
	require.NoError(t, err)

	for _, sch := range res.Schedules {
		for _, ev := range sch.Events {
			assert.True(t, ev.Payment.Equal(ev.Principal.Add(ev.Interest)),
				"debt %s month %d: %s != %s + %s", sch.DebtID, ev.Month, ev.Payment, ev.Principal, ev.Interest)
		}
	}
}

func TestSimulate_BalancesNeverIncrease(t *testing.T) {
	res, err := Simulate(Plan{
		Debts:        divergentDebts(),
		Strategy:     Avalanche,
		ExtraPayment: dec("150"),
	})
	require.NoError(t, err)

	for _, sch := range res.Schedules {
		prev := decimal.Decimal{}
		for i, ev := range sch.Events {
			if i > 0 {
				assert.True(t, ev.Remaining.LessThanOrEqual(prev),
					"debt %s month %d: %s > %s", sch.DebtID, ev.Month, ev.Remaining, prev)
				if ev.Principal.IsPositive() {
					assert.True(t, ev.Remaining.LessThan(prev))
				}
			}
			prev = ev.Remaining
		}
	}
}

func TestSimulate_RolloverFreesMinimumNextMonth(t *testing.T) {
	res, err := Simulate(Plan{
		Debts:        divergentDebts(),
		Strategy:     Snowball,
		ExtraPayment: dec("150"),
	})
	require.NoError(t, err)
	require.False(t, res.Incomplete)
	require.Equal(t, []string{"a", "b"}, res.PayoffOrder)

	cleared, ok := res.ScheduleFor("a")
	require.True(t, ok)
	m := cleared.Months

	rest, ok := res.ScheduleFor("b")
	require.True(t, ok)
	require.Greater(t, rest.Months, m+1)

	// While "a" is active "b" pays its bare minimum; the month after
	// "a" clears, "b" absorbs minimum + extra + the freed 50.
	assert.True(t, rest.Events[m-1].Payment.Equal(dec("120")),
		"month %d payment %s", m, rest.Events[m-1].Payment)
	assert.True(t, rest.Events[m].Payment.Equal(dec("320")),
		"month %d payment %s", m+1, rest.Events[m].Payment)
}

func TestCompare_DivergentOrders_AvalancheSavesInterest(t *testing.T) {
	cmp, err := Compare(divergentDebts(), dec("150"), 0)
	require.NoError(t, err)

	assert.False(t, cmp.Snowball.Incomplete)
	assert.False(t, cmp.Avalanche.Incomplete)
	assert.Equal(t, []string{"a", "b"}, cmp.Snowball.PayoffOrder)
	assert.Equal(t, []string{"b", "a"}, cmp.Avalanche.PayoffOrder)

	assert.True(t, cmp.Avalanche.TotalInterest.LessThan(cmp.Snowball.TotalInterest),
		"avalanche %s vs snowball %s", cmp.Avalanche.TotalInterest, cmp.Snowball.TotalInterest)
	assert.True(t, cmp.InterestSaved.IsPositive())
	assert.Equal(t, Avalanche, cmp.Recommended)
}

func TestCompare_EmptyDebtList(t *testing.T) {
	cmp, err := Compare(nil, decimal.Zero, 0)
	require.NoError(t, err)

	for _, res := range []Result{cmp.Snowball, cmp.Avalanche} {
		assert.Equal(t, 0, res.Months)
		assert.True(t, res.TotalInterest.IsZero())
		assert.False(t, res.Incomplete)
		assert.Empty(t, res.Schedules)
		assert.Empty(t, res.PayoffOrder)
	}
	assert.True(t, cmp.InterestSaved.IsZero())
	assert.Equal(t, Snowball, cmp.Recommended)
}

func TestCompare_ZeroExtraPaymentGlidePath(t *testing.T) {
	// Equal rates, so avalanche ties on rate and keeps input order
	// while snowball reorders by balance. With an empty pool the
	// focus choice has no numerical effect: identical cash flows.
	debts := []Debt{
		debt("a", "600", "12", "60"),
		debt("b", "300", "12", "30"),
	}
	cmp, err := Compare(debts, decimal.Zero, 0)
	require.NoError(t, err)

	assert.Equal(t, 11, cmp.Snowball.Months)
	assert.Equal(t, 11, cmp.Avalanche.Months)
	assert.True(t, cmp.Snowball.TotalInterest.Equal(cmp.Avalanche.TotalInterest))
	assert.True(t, cmp.InterestSaved.IsZero())
	assert.Equal(t, Snowball, cmp.Recommended)

	// Both clear in the same month; listed order follows priority.
	assert.Equal(t, []string{"b", "a"}, cmp.Snowball.PayoffOrder)
	assert.Equal(t, []string{"a", "b"}, cmp.Avalanche.PayoffOrder)
}

func TestSimulate_InsufficientPaymentStalls(t *testing.T) {
	// Interest accrues ~20/month against a 15 minimum: no progress.
	res, err := Simulate(Plan{
		Debts:     []Debt{debt("trap", "1000", "24", "15")},
		Strategy:  Avalanche,
		MaxMonths: 24,
	})
	require.NoError(t, err)

	assert.True(t, res.Incomplete)
	assert.Equal(t, 24, res.Months)
	assert.Empty(t, res.PayoffOrder)

	sch, ok := res.ScheduleFor("trap")
	require.True(t, ok)
	assert.True(t, sch.Stalled)
	require.Len(t, sch.Events, 24)
	for _, ev := range sch.Events {
		assert.True(t, ev.Principal.IsZero())
		assert.True(t, ev.Payment.Equal(dec("15")))
		assert.True(t, ev.Remaining.Equal(dec("1000")))
	}
}

func TestSimulate_PartialCompletionReportsBoth(t *testing.T) {
	res, err := Simulate(Plan{
		Debts: []Debt{
			debt("ok", "100", "0", "50"),
			debt("trap", "1000", "24", "15"),
		},
		Strategy:  Snowball,
		MaxMonths: 12,
	})
	require.NoError(t, err)

	assert.True(t, res.Incomplete)
	assert.Equal(t, []string{"ok"}, res.PayoffOrder)

	okSch, _ := res.ScheduleFor("ok")
	assert.False(t, okSch.Stalled)
	assert.Equal(t, 2, okSch.Months)

	trapSch, _ := res.ScheduleFor("trap")
	assert.True(t, trapSch.Stalled)
	assert.Equal(t, 12, trapSch.Months)
}

func TestSimulate_ZeroBalanceDebtFreesMinimumImmediately(t *testing.T) {
	res, err := Simulate(Plan{
		Debts: []Debt{
			debt("settled", "0", "18", "40"),
			debt("open", "1000", "10", "50"),
		},
		Strategy: Snowball,
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(res.PayoffOrder), 1)
	assert.Equal(t, "settled", res.PayoffOrder[0])

	settled, _ := res.ScheduleFor("settled")
	assert.Empty(t, settled.Events)
	assert.False(t, settled.Stalled)

	// The settled debt's minimum is in the pool from month one.
	open, _ := res.ScheduleFor("open")
	require.NotEmpty(t, open.Events)
	assert.True(t, open.Events[0].Payment.Equal(dec("90.00")),
		"month 1 payment %s", open.Events[0].Payment)
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	debts := divergentDebts()
	_, err := Simulate(Plan{Debts: debts, Strategy: Snowball, ExtraPayment: dec("150")})
	require.NoError(t, err)

	assert.True(t, debts[0].Balance.Equal(dec("1000")))
	assert.True(t, debts[1].Balance.Equal(dec("4000")))
}

func TestCompare_Idempotent(t *testing.T) {
	first, err := Compare(divergentDebts(), dec("150"), 0)
	require.NoError(t, err)
	second, err := Compare(divergentDebts(), dec("150"), 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompare_AvalancheNeverCostsMore(t *testing.T) {
	sets := [][]Debt{
		divergentDebts(),
		{
			debt("a", "500", "25", "25"),
			debt("b", "5000", "8", "100"),
		},
		{
			debt("x", "2500", "19.99", "75"),
			debt("y", "1200", "6.5", "35"),
			debt("z", "800", "29.99", "40"),
		},
	}
	for _, debts := range sets {
		cmp, err := Compare(debts, dec("100"), 0)
		require.NoError(t, err)
		assert.True(t, cmp.Avalanche.TotalInterest.LessThanOrEqual(cmp.Snowball.TotalInterest),
			"avalanche %s vs snowball %s", cmp.Avalanche.TotalInterest, cmp.Snowball.TotalInterest)
	}
}
