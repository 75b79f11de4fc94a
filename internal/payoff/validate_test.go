package payoff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDebts_Valid(t *testing.T) {
	err := ValidateDebts([]Debt{
		debt("a", "100", "5", "10"),
		debt("b", "0", "0", "0"),
	})
	assert.NoError(t, err)
}

func TestValidateDebts_NegativeBalance(t *testing.T) {
	err := ValidateDebts([]Debt{debt("a", "-1", "5", "10")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "negative balance")
}

func TestValidateDebts_NegativeRate(t *testing.T) {
	err := ValidateDebts([]Debt{debt("a", "100", "-5", "10")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateDebts_NegativeMinimumPayment(t *testing.T) {
	err := ValidateDebts([]Debt{debt("a", "100", "5", "-10")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateDebts_EmptyID(t *testing.T) {
	err := ValidateDebts([]Debt{debt("", "100", "5", "10")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateDebts_DuplicateID(t *testing.T) {
	err := ValidateDebts([]Debt{
		debt("a", "100", "5", "10"),
		debt("a", "200", "6", "20"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestSimulate_RejectsUnknownStrategy(t *testing.T) {
	res, err := Simulate(Plan{
		Debts:    []Debt{debt("a", "100", "5", "10")},
		Strategy: Strategy("biggest-first"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, res)
}

func TestSimulate_RejectsNegativeExtraPayment(t *testing.T) {
	res, err := Simulate(Plan{
		Debts:        []Debt{debt("a", "100", "5", "10")},
		Strategy:     Snowball,
		ExtraPayment: dec("-1"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, res)
}

func TestSimulate_RejectsNegativeCeiling(t *testing.T) {
	res, err := Simulate(Plan{
		Debts:     []Debt{debt("a", "100", "5", "10")},
		Strategy:  Snowball,
		MaxMonths: -1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, res)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("snowball")
	require.NoError(t, err)
	assert.Equal(t, Snowball, s)

	s, err = ParseStrategy("avalanche")
	require.NoError(t, err)
	assert.Equal(t, Avalanche, s)

	_, err = ParseStrategy("highest-rate")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSimulate_RejectsBeforeSimulating(t *testing.T) {
	// A negative balance alongside an otherwise-convergent debt must
	// fail fast with no partial result.
	res, err := Simulate(Plan{
		Debts: []Debt{
			debt("good", "100", "5", "10"),
			debt("bad", "-100", "5", "10"),
		},
		Strategy: Snowball,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, res)
}

func TestValidateDebts_ZeroDecimalPlacesPreserved(t *testing.T) {
	// Whole-number input stays valid; validation only rejects signs.
	err := ValidateDebts([]Debt{debt("a", "1500.50", "19.99", "35.25")})
	assert.NoError(t, err)

	var zero decimal.Decimal
	assert.NoError(t, ValidateDebts([]Debt{{ID: "z", Balance: zero, AnnualRate: zero, MinimumPayment: zero}}))
}
