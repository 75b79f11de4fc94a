package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/wealthtracker-dev/wealthtracker/internal/cache"
	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/payoff"
)

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.cfg.Debts.List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if debts == nil {
		debts = []model.Debt{}
	}
	s.writeJSON(w, http.StatusOK, debts)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var d model.Debt
	if err := decodeJSON(r, &d); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.JoinValidation(d.Validate()); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.cfg.Debts.Create(&d); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.recordActivity("debt.add", d.ID, d.Name)
	s.writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cfg.Debts.Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.recordActivity("debt.delete", id, "")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// planRequest is the body for both projection endpoints. An empty
// Debts list means "use the stored debts". Compare ignores Strategy.
type planRequest struct {
	Strategy     string          `json:"strategy"`
	ExtraPayment decimal.Decimal `json:"extra_payment"`
	MaxMonths    int             `json:"max_months"`
	Debts        []payoff.Debt   `json:"debts"`
}

// resolveDebts returns the ad-hoc debts from the request, or the
// stored ones converted to simulation input.
func (s *Server) resolveDebts(req planRequest) ([]payoff.Debt, error) {
	if len(req.Debts) > 0 {
		return req.Debts, nil
	}

	stored, err := s.cfg.Debts.List()
	if err != nil {
		return nil, err
	}
	out := make([]payoff.Debt, 0, len(stored))
	for _, d := range stored {
		out = append(out, d.Payoff())
	}
	return out, nil
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	strategy, err := payoff.ParseStrategy(req.Strategy)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	debts, err := s.resolveDebts(req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	plan := payoff.Plan{
		Debts:        debts,
		Strategy:     strategy,
		ExtraPayment: req.ExtraPayment,
		MaxMonths:    req.MaxMonths,
	}

	key := cache.Key("plan", plan)
	if cached, ok := s.cfg.Cache.Get(key); ok {
		s.writeRaw(w, cached)
		return
	}

	result, err := payoff.Simulate(plan)
	if err != nil {
		s.writePayoffError(w, err)
		return
	}
	s.writeCached(w, key, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	debts, err := s.resolveDebts(req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	input := struct {
		Debts        []payoff.Debt   `json:"debts"`
		ExtraPayment decimal.Decimal `json:"extra_payment"`
		MaxMonths    int             `json:"max_months"`
	}{debts, req.ExtraPayment, req.MaxMonths}

	key := cache.Key("compare", input)
	if cached, ok := s.cfg.Cache.Get(key); ok {
		s.writeRaw(w, cached)
		return
	}

	comparison, err := payoff.Compare(debts, req.ExtraPayment, req.MaxMonths)
	if err != nil {
		s.writePayoffError(w, err)
		return
	}
	s.writeCached(w, key, comparison)
}

func (s *Server) writePayoffError(w http.ResponseWriter, err error) {
	if errors.Is(err, payoff.ErrInvalidInput) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("projection failed")
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		s.log.Error().Err(err).Msg("writing cached response")
	}
}

// writeCached responds with data and stores the serialized form for
// the next identical request.
func (s *Server) writeCached(w http.ResponseWriter, key string, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.log.Error().Err(err).Msg("encoding projection")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.cfg.Cache.Set(key, string(body)); err != nil {
		s.log.Warn().Err(err).Msg("caching projection failed")
	}
	s.writeRaw(w, string(body))
}
