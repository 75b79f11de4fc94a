// Package recurring materializes recurring transaction templates into
// concrete transactions as their due dates arrive.
package recurring

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

// Service posts due recurring transactions.
type Service struct {
	recurring *store.RecurringRepo
	txs       *store.TransactionRepo
	log       zerolog.Logger
}

// NewService creates a materializer over the given repositories.
func NewService(recurring *store.RecurringRepo, txs *store.TransactionRepo, log zerolog.Logger) *Service {
	return &Service{
		recurring: recurring,
		txs:       txs,
		log:       log.With().Str("component", "recurring").Logger(),
	}
}

// Result summarizes one materialization run.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// MaterializeDue posts a transaction for every template occurrence due
// on or before asOf, then advances each template past them. A template
// that fell behind catches up one interval at a time. References make
// the run idempotent: an occurrence that already posted is skipped but
// the template still advances.
func (s *Service) MaterializeDue(asOf time.Time) (Result, error) {
	var res Result

	due, err := s.recurring.ListDue(asOf)
	if err != nil {
		return res, err
	}

	for _, rt := range due {
		next := rt.NextDate
		for !next.After(asOf) {
			ref := occurrenceRef(rt.ID, next)
			exists, err := s.txs.ReferenceExists(ref)
			if err != nil {
				return res, err
			}
			if exists {
				res.Skipped++
			} else {
				tx := &model.Transaction{
					AccountID:   rt.AccountID,
					Date:        next,
					Description: rt.Description,
					Amount:      rt.Amount,
					Category:    rt.Category,
					Reference:   ref,
				}
				if err := s.txs.Create(tx); err != nil {
					return res, fmt.Errorf("posting %s: %w", rt.Description, err)
				}
				res.Created++
			}
			next = rt.Frequency.NextAfter(next)
		}
		if err := s.recurring.Advance(rt.ID, next); err != nil {
			return res, err
		}
	}

	if res.Created > 0 || res.Skipped > 0 {
		s.log.Info().
			Int("created", res.Created).
			Int("skipped", res.Skipped).
			Msg("recurring transactions materialized")
	}
	return res, nil
}

// occurrenceRef identifies one occurrence of a template so a re-run
// cannot post it twice.
func occurrenceRef(templateID string, date time.Time) string {
	return fmt.Sprintf("rec_%s_%s", templateID, date.Format("20060102"))
}
