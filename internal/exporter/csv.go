package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

const dateFormat = "2006-01-02"

// TransactionHeader is the CSV header for transactions.csv.
const TransactionHeader = "id,account_id,date,description,amount,category,reference,notes"

const (
	txNumFields = 8
	txColID     = 0
	txColAcct   = 1
	txColDate   = 2
	txColDesc   = 3
	txColAmount = 4
	txColCat    = 5
	txColRef    = 6
	txColNotes  = 7
)

// MarshalTransaction converts a Transaction to a CSV row ([]string).
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, txNumFields)
	row[txColID] = t.ID
	row[txColAcct] = t.AccountID
	row[txColDate] = t.Date.Format(dateFormat)
	row[txColDesc] = t.Description
	row[txColAmount] = t.Amount.StringFixed(2)
	row[txColCat] = t.Category
	row[txColRef] = t.Reference
	row[txColNotes] = t.Notes
	return row
}

// WriteTransactions writes transactions to w (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AccountHeader is the CSV header for accounts.csv.
const AccountHeader = "id,name,type,currency,balance,institution,created_at"

const (
	acctNumFields   = 7
	acctColID       = 0
	acctColName     = 1
	acctColType     = 2
	acctColCurrency = 3
	acctColBalance  = 4
	acctColInst     = 5
	acctColCreated  = 6
)

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, acctNumFields)
	row[acctColID] = a.ID
	row[acctColName] = a.Name
	row[acctColType] = string(a.Type)
	row[acctColCurrency] = a.Currency
	row[acctColBalance] = a.Balance.StringFixed(2)
	row[acctColInst] = a.Institution
	row[acctColCreated] = a.CreatedAt.Format(time.RFC3339)
	return row
}

// WriteAccounts writes accounts to w (including header).
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(AccountHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range accounts {
		if err := cw.Write(MarshalAccount(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// DebtHeader is the CSV header for debts.csv.
const DebtHeader = "id,name,balance,annual_rate,minimum_payment,due_day"

const (
	debtNumFields = 6
	debtColID     = 0
	debtColName   = 1
	debtColBal    = 2
	debtColRate   = 3
	debtColMin    = 4
	debtColDueDay = 5
)

// MarshalDebt converts a Debt to a CSV row.
func MarshalDebt(d model.Debt) []string {
	row := make([]string, debtNumFields)
	row[debtColID] = d.ID
	row[debtColName] = d.Name
	row[debtColBal] = d.Balance.StringFixed(2)
	row[debtColRate] = d.AnnualRate.String()
	row[debtColMin] = d.MinimumPayment.StringFixed(2)
	if d.DueDay > 0 {
		row[debtColDueDay] = strconv.Itoa(d.DueDay)
	}
	return row
}

// WriteDebts writes debts to w (including header).
func WriteDebts(w io.Writer, debts []model.Debt) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(DebtHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, d := range debts {
		if err := cw.Write(MarshalDebt(d)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// BudgetHeader is the CSV header for budgets.csv.
const BudgetHeader = "category,limit"

// MarshalBudget converts a Budget to a CSV row.
func MarshalBudget(b model.Budget) []string {
	return []string{b.Category, b.Limit.StringFixed(2)}
}

// WriteBudgets writes budgets to w (including header).
func WriteBudgets(w io.Writer, budgets []model.Budget) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(BudgetHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, b := range budgets {
		if err := cw.Write(MarshalBudget(b)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
