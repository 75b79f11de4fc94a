package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

func TestAccountRepo_CreateFillsIDAndTimestamp(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepo(db, testLog)

	a := &model.Account{Name: "Everyday", Type: model.AccountTypeChecking, Currency: "USD"}
	require.NoError(t, repo.Create(a))

	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestAccountRepo_GetRoundTripsFields(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepo(db, testLog)

	a := &model.Account{
		Name:        "Emergency Fund",
		Type:        model.AccountTypeSavings,
		Currency:    "USD",
		Balance:     dec("1250.75"),
		Institution: "First National",
	}
	require.NoError(t, repo.Create(a))

	got, err := repo.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emergency Fund", got.Name)
	assert.Equal(t, model.AccountTypeSavings, got.Type)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "First National", got.Institution)
	assert.True(t, got.Balance.Equal(dec("1250.75")), "balance %s", got.Balance)
}

func TestAccountRepo_GetMissingReturnsNotFound(t *testing.T) {
	db := testDB(t)
	_, err := NewAccountRepo(db, testLog).Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepo_ListOrdersByCreation(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepo(db, testLog)

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"oldest", "middle", "newest"} {
		a := &model.Account{
			Name:      name,
			Type:      model.AccountTypeChecking,
			Currency:  "USD",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(a))
	}

	accounts, err := repo.List()
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "oldest", accounts[0].Name)
	assert.Equal(t, "middle", accounts[1].Name)
	assert.Equal(t, "newest", accounts[2].Name)
}

func TestAccountRepo_DeleteCascadesToTransactions(t *testing.T) {
	db := testDB(t)
	accounts := NewAccountRepo(db, testLog)
	txs := NewTransactionRepo(db, testLog)

	id := seedAccount(t, db, "Everyday")
	require.NoError(t, txs.Create(&model.Transaction{
		AccountID:   id,
		Date:        date("2024-05-03"),
		Description: "coffee",
		Amount:      dec("-4.50"),
	}))

	require.NoError(t, accounts.Delete(id))

	remaining, err := txs.List(TxFilter{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAccountRepo_DeleteMissingReturnsNotFound(t *testing.T) {
	db := testDB(t)
	assert.ErrorIs(t, NewAccountRepo(db, testLog).Delete("nope"), ErrNotFound)
}
