package exporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
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
	t, _ := time.Parse(dateFormat, s)
	return t
}

func testService(t *testing.T) (*Service, string) {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	accounts := store.NewAccountRepo(db, log)
	txs := store.NewTransactionRepo(db, log)
	debts := store.NewDebtRepo(db, log)
	budgets := store.NewBudgetRepo(db, log)

	a := &model.Account{Name: "Everyday", Type: model.AccountTypeChecking, Currency: "USD"}
	require.NoError(t, accounts.Create(a))

	require.NoError(t, txs.Create(&model.Transaction{
		AccountID: a.ID, Date: date("2024-05-03"), Description: "groceries",
		Amount: dec("-50.25"), Category: "groceries",
	}))
	require.NoError(t, txs.Create(&model.Transaction{
		AccountID: a.ID, Date: date("2024-05-01"), Description: "salary",
		Amount: dec("2100"), Category: "salary",
	}))
	require.NoError(t, debts.Create(&model.Debt{
		Name: "Visa", Balance: dec("4000"), AnnualRate: dec("19.99"), MinimumPayment: dec("120"),
	}))
	require.NoError(t, budgets.Upsert(&model.Budget{Category: "groceries", Limit: dec("400")}))

	return NewService(accounts, txs, debts, budgets, log), a.ID
}

func TestMarshalTransaction_Fields(t *testing.T) {
	tx := model.Transaction{
		ID: "t1", AccountID: "a1", Date: date("2024-05-03"),
		Description: "groceries", Amount: dec("-50.25"),
		Category: "groceries", Reference: "stmt-1", Notes: "weekly run",
	}
	row := MarshalTransaction(tx)
	assert.Equal(t, []string{"t1", "a1", "2024-05-03", "groceries", "-50.25", "groceries", "stmt-1", "weekly run"}, row)
}

func TestMarshalDebt_OmitsUnsetDueDay(t *testing.T) {
	d := model.Debt{ID: "d1", Name: "Visa", Balance: dec("4000"), AnnualRate: dec("19.99"), MinimumPayment: dec("120")}
	row := MarshalDebt(d)
	assert.Equal(t, "", row[debtColDueDay])

	d.DueDay = 15
	assert.Equal(t, "15", MarshalDebt(d)[debtColDueDay])
}

func TestWriteTransactions_HeaderThenRows(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTransactions(&buf, []model.Transaction{
		{ID: "t1", AccountID: "a1", Date: date("2024-05-03"), Description: "coffee", Amount: dec("-4.50"), Category: "dining"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, TransactionHeader, lines[0])
	assert.Equal(t, "t1,a1,2024-05-03,coffee,-4.50,dining,,", lines[1])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestService_TransactionsCSV(t *testing.T) {
	svc, _ := testService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Transactions(&buf, store.TxFilter{}, FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, TransactionHeader, lines[0])
	assert.Contains(t, lines[1], "groceries", "newest date first")
	assert.Contains(t, lines[2], "salary")
}

func TestService_TransactionsJSON(t *testing.T) {
	svc, accountID := testService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Transactions(&buf, store.TxFilter{Category: "salary"}, FormatJSON))

	var decoded []model.Transaction
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "salary", decoded[0].Description)
	assert.Equal(t, accountID, decoded[0].AccountID)
	assert.True(t, decoded[0].Amount.Equal(dec("2100")))
}

func TestService_SnapshotWritesAllFiles(t *testing.T) {
	svc, _ := testService(t)

	dir := filepath.Join(t.TempDir(), "export")
	require.NoError(t, svc.Snapshot(dir))

	for _, name := range []string{"accounts.csv", "transactions.csv", "debts.csv", "budgets.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "transactions.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)

	data, err = os.ReadFile(filepath.Join(dir, "debts.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Visa")
	assert.Contains(t, string(data), "19.99")
}
