package recurring

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

type fixture struct {
	svc       *Service
	recurring *store.RecurringRepo
	txs       *store.TransactionRepo
	accounts  *store.AccountRepo
	accountID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	f := &fixture{
		recurring: store.NewRecurringRepo(db, log),
		txs:       store.NewTransactionRepo(db, log),
		accounts:  store.NewAccountRepo(db, log),
	}
	f.svc = NewService(f.recurring, f.txs, log)

	a := &model.Account{Name: "Everyday", Type: model.AccountTypeChecking, Currency: "USD", Balance: dec("1000")}
	require.NoError(t, f.accounts.Create(a))
	f.accountID = a.ID
	return f
}

func (f *fixture) template(t *testing.T, desc string, amount string, freq model.Frequency, next string) *model.RecurringTransaction {
	t.Helper()
	rt := &model.RecurringTransaction{
		AccountID:   f.accountID,
		Description: desc,
		Amount:      dec(amount),
		Category:    "subscriptions",
		Frequency:   freq,
		NextDate:    date(next),
		Active:      true,
	}
	require.NoError(t, f.recurring.Create(rt))
	return rt
}

func (f *fixture) nextDateOf(t *testing.T, id string) time.Time {
	t.Helper()
	all, err := f.recurring.List()
	require.NoError(t, err)
	for _, rt := range all {
		if rt.ID == id {
			return rt.NextDate
		}
	}
	t.Fatalf("template %s not found", id)
	return time.Time{}
}

func TestMaterializeDue_PostsAndAdvances(t *testing.T) {
	f := newFixture(t)
	rt := f.template(t, "Netflix", "-15.99", model.FrequencyMonthly, "2024-05-01")

	res, err := f.svc.MaterializeDue(date("2024-05-15"))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1}, res)

	txs, err := f.txs.List(store.TxFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, f.accountID, txs[0].AccountID)
	assert.Equal(t, "Netflix", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(dec("-15.99")))
	assert.Equal(t, "subscriptions", txs[0].Category)
	assert.Equal(t, "rec_"+rt.ID+"_20240501", txs[0].Reference)
	assert.Equal(t, date("2024-05-01"), txs[0].Date)

	assert.Equal(t, date("2024-06-01"), f.nextDateOf(t, rt.ID))

	a, err := f.accounts.Get(f.accountID)
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("984.01")))
}

func TestMaterializeDue_CatchesUpOverdueTemplate(t *testing.T) {
	f := newFixture(t)
	rt := f.template(t, "Gym", "-25", model.FrequencyWeekly, "2024-04-28")

	res, err := f.svc.MaterializeDue(date("2024-05-15"))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 3}, res)

	txs, err := f.txs.List(store.TxFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Newest first.
	assert.Equal(t, date("2024-05-12"), txs[0].Date)
	assert.Equal(t, date("2024-05-05"), txs[1].Date)
	assert.Equal(t, date("2024-04-28"), txs[2].Date)

	assert.Equal(t, date("2024-05-19"), f.nextDateOf(t, rt.ID))
}

func TestMaterializeDue_SkipsAlreadyPostedOccurrences(t *testing.T) {
	f := newFixture(t)
	rt := f.template(t, "Netflix", "-15.99", model.FrequencyMonthly, "2024-05-01")

	_, err := f.svc.MaterializeDue(date("2024-05-15"))
	require.NoError(t, err)

	// Rewind the template as a restore-from-backup would.
	require.NoError(t, f.recurring.Advance(rt.ID, date("2024-05-01")))

	res, err := f.svc.MaterializeDue(date("2024-05-15"))
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, res)

	txs, err := f.txs.List(store.TxFilter{})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, date("2024-06-01"), f.nextDateOf(t, rt.ID))
}

func TestMaterializeDue_SecondRunPostsNothing(t *testing.T) {
	f := newFixture(t)
	f.template(t, "Netflix", "-15.99", model.FrequencyMonthly, "2024-05-01")

	_, err := f.svc.MaterializeDue(date("2024-05-15"))
	require.NoError(t, err)

	res, err := f.svc.MaterializeDue(date("2024-05-15"))
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestMaterializeDue_IgnoresInactiveAndFutureTemplates(t *testing.T) {
	f := newFixture(t)
	cancelled := f.template(t, "Old gym", "-25", model.FrequencyMonthly, "2024-05-01")
	require.NoError(t, f.recurring.Deactivate(cancelled.ID))
	f.template(t, "Rent", "-1800", model.FrequencyMonthly, "2024-06-01")

	res, err := f.svc.MaterializeDue(date("2024-05-15"))
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	txs, err := f.txs.List(store.TxFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}
