package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/period"
)

// monthFromQuery parses the month query parameter, defaulting to the
// current month.
func monthFromQuery(r *http.Request, name string) (period.Period, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return period.Current(), nil
	}
	return period.Parse(v)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	p, err := monthFromQuery(r, "month")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	statuses, err := s.cfg.BudgetStatus.StatusAll(p)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if statuses == nil {
		statuses = []model.BudgetStatus{}
	}
	s.writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Limit decimal.Decimal `json:"limit"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b := model.Budget{Category: chi.URLParam(r, "category"), Limit: body.Limit}
	if err := model.JoinValidation(b.Validate()); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.cfg.Budgets.Upsert(&b); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.recordActivity("budget.set", b.Category, b.Limit.StringFixed(2))
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if err := s.cfg.Budgets.Delete(category); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.recordActivity("budget.delete", category, "")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
