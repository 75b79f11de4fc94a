package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

// SimpleParser parses WealthTracker's own CSV layout:
// date,description,amount with an optional trailing category column.
type SimpleParser struct{}

const simpleDateFormat = "2006-01-02"

// Format returns the parser name.
func (p *SimpleParser) Format() string { return "simple" }

// Parse reads a simple CSV and returns BankTransactions.
func (p *SimpleParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // category column is optional

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading simple CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		txn, err := parseSimpleRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseSimpleRow(rec []string) (model.BankTransaction, error) {
	if len(rec) < 3 || len(rec) > 4 {
		return model.BankTransaction{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(rec))
	}

	date, err := time.Parse(simpleDateFormat, rec[0])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", rec[0], err)
	}

	amount, err := decimal.NewFromString(rec[2])
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", rec[2], err)
	}

	txn := model.BankTransaction{
		Date:        date,
		Description: rec[1],
		Amount:      amount,
		Reference:   makeRef("csv", date, rec[1]),
	}
	if len(rec) == 4 {
		txn.Category = rec[3]
	}
	return txn, nil
}
