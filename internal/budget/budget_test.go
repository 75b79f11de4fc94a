package budget

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/period"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

var may = period.Period{Year: 2024, Month: 5}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func testService(t *testing.T) (*Service, *store.TransactionRepo, *store.BudgetRepo, string) {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	budgets := store.NewBudgetRepo(db, log)
	txs := store.NewTransactionRepo(db, log)

	a := &model.Account{Name: "Everyday", Type: model.AccountTypeChecking, Currency: "USD"}
	require.NoError(t, store.NewAccountRepo(db, log).Create(a))

	return NewService(budgets, txs, log), txs, budgets, a.ID
}

func spend(t *testing.T, txs *store.TransactionRepo, accountID, day, category, amount string) {
	t.Helper()
	require.NoError(t, txs.Create(&model.Transaction{
		AccountID: accountID, Date: date(day), Description: category, Amount: dec(amount), Category: category,
	}))
}

func TestStatus_UnderBudget(t *testing.T) {
	svc, txs, budgets, accountID := testService(t)
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "groceries", Limit: dec("400")}))
	spend(t, txs, accountID, "2024-05-03", "groceries", "-350")

	st, err := svc.Status("groceries", may)
	require.NoError(t, err)
	assert.True(t, st.Spent.Equal(dec("350")), "spent %s", st.Spent)
	assert.True(t, st.Remaining.Equal(dec("50")))
	assert.True(t, st.PercentUsed.Equal(dec("87.5")), "percent %s", st.PercentUsed)
	assert.False(t, st.OverBudget)
}

func TestStatus_ExactLimitCountsAsExceeded(t *testing.T) {
	svc, txs, budgets, accountID := testService(t)
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "dining", Limit: dec("150")}))
	spend(t, txs, accountID, "2024-05-10", "dining", "-150")

	st, err := svc.Status("dining", may)
	require.NoError(t, err)
	assert.True(t, st.PercentUsed.Equal(dec("100")))
	assert.True(t, st.OverBudget)
	assert.True(t, st.Remaining.IsZero())
}

func TestStatus_OverBudget(t *testing.T) {
	svc, txs, budgets, accountID := testService(t)
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "groceries", Limit: dec("400")}))
	spend(t, txs, accountID, "2024-05-03", "groceries", "-450")

	st, err := svc.Status("groceries", may)
	require.NoError(t, err)
	assert.True(t, st.OverBudget)
	assert.True(t, st.Remaining.Equal(dec("-50")), "remaining goes negative, got %s", st.Remaining)
	assert.True(t, st.PercentUsed.Equal(dec("112.5")))
}

func TestStatus_RefundsOffsetSpending(t *testing.T) {
	svc, txs, budgets, accountID := testService(t)
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "shopping", Limit: dec("200")}))
	spend(t, txs, accountID, "2024-05-03", "shopping", "-120")
	spend(t, txs, accountID, "2024-05-08", "shopping", "130") // return, bigger than the purchase

	st, err := svc.Status("shopping", may)
	require.NoError(t, err)
	assert.True(t, st.Spent.IsZero(), "net inflow is not spending")
	assert.True(t, st.Remaining.Equal(dec("200")))
	assert.False(t, st.OverBudget)
}

func TestStatus_OtherMonthsExcluded(t *testing.T) {
	svc, txs, budgets, accountID := testService(t)
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "groceries", Limit: dec("400")}))
	spend(t, txs, accountID, "2024-04-30", "groceries", "-999")
	spend(t, txs, accountID, "2024-05-03", "groceries", "-10")

	st, err := svc.Status("groceries", may)
	require.NoError(t, err)
	assert.True(t, st.Spent.Equal(dec("10")), "spent %s", st.Spent)
}

func TestStatus_UnknownCategory(t *testing.T) {
	svc, _, _, _ := testService(t)
	_, err := svc.Status("travel", may)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStatusAll_OrdersByCategoryAndCoversZeroSpend(t *testing.T) {
	svc, txs, budgets, accountID := testService(t)
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "utilities", Limit: dec("250")}))
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "dining", Limit: dec("150")}))
	spend(t, txs, accountID, "2024-05-12", "dining", "-60")

	all, err := svc.StatusAll(may)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "dining", all[0].Category)
	assert.True(t, all[0].Spent.Equal(dec("60")))
	assert.True(t, all[0].PercentUsed.Equal(dec("40")))

	assert.Equal(t, "utilities", all[1].Category)
	assert.True(t, all[1].Spent.IsZero(), "no transactions still yields a status row")
	assert.True(t, all[1].PercentUsed.IsZero())
}

func TestStatusAll_NoBudgets(t *testing.T) {
	svc, _, _, _ := testService(t)
	all, err := svc.StatusAll(may)
	require.NoError(t, err)
	assert.Nil(t, all)
}
