package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

func seedRecurring(t *testing.T, repo *RecurringRepo, accountID, desc, nextDate string, active bool) *model.RecurringTransaction {
	t.Helper()
	rt := &model.RecurringTransaction{
		AccountID:   accountID,
		Description: desc,
		Amount:      dec("-15.99"),
		Category:    "subscriptions",
		Frequency:   model.FrequencyMonthly,
		NextDate:    date(nextDate),
		Active:      active,
	}
	require.NoError(t, repo.Create(rt))
	return rt
}

func TestRecurringRepo_ListOrdersByDueDate(t *testing.T) {
	db := testDB(t)
	repo := NewRecurringRepo(db, testLog)
	id := seedAccount(t, db, "Everyday")

	seedRecurring(t, repo, id, "gym", "2024-06-20", true)
	seedRecurring(t, repo, id, "streaming", "2024-06-05", true)
	seedRecurring(t, repo, id, "insurance", "2024-06-12", false)

	all, err := repo.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "streaming", all[0].Description)
	assert.Equal(t, "insurance", all[1].Description)
	assert.Equal(t, "gym", all[2].Description)
	assert.False(t, all[1].Active)
}

func TestRecurringRepo_ListDueIncludesTodayExcludesInactive(t *testing.T) {
	db := testDB(t)
	repo := NewRecurringRepo(db, testLog)
	id := seedAccount(t, db, "Everyday")

	seedRecurring(t, repo, id, "overdue", "2024-06-01", true)
	seedRecurring(t, repo, id, "due today", "2024-06-10", true)
	seedRecurring(t, repo, id, "due later", "2024-06-11", true)
	seedRecurring(t, repo, id, "cancelled", "2024-06-01", false)

	due, err := repo.ListDue(date("2024-06-10"))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "overdue", due[0].Description)
	assert.Equal(t, "due today", due[1].Description)
}

func TestRecurringRepo_AdvanceMovesNextDate(t *testing.T) {
	db := testDB(t)
	repo := NewRecurringRepo(db, testLog)
	id := seedAccount(t, db, "Everyday")

	rt := seedRecurring(t, repo, id, "rent", "2024-06-01", true)
	require.NoError(t, repo.Advance(rt.ID, date("2024-07-01")))

	due, err := repo.ListDue(date("2024-06-30"))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = repo.ListDue(date("2024-07-01"))
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestRecurringRepo_DeactivateStopsMaterialization(t *testing.T) {
	db := testDB(t)
	repo := NewRecurringRepo(db, testLog)
	id := seedAccount(t, db, "Everyday")

	rt := seedRecurring(t, repo, id, "trial", "2024-06-01", true)
	require.NoError(t, repo.Deactivate(rt.ID))

	due, err := repo.ListDue(date("2024-12-31"))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRecurringRepo_MissingIDsReturnNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewRecurringRepo(db, testLog)

	assert.ErrorIs(t, repo.Advance("nope", date("2024-07-01")), ErrNotFound)
	assert.ErrorIs(t, repo.Deactivate("nope"), ErrNotFound)
	assert.ErrorIs(t, repo.Delete("nope"), ErrNotFound)
}
