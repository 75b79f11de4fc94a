package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

const queryDateLayout = "2006-01-02"

// txFilterFromQuery reads account, category, from, to, and limit
// query parameters. Both dates are inclusive.
func txFilterFromQuery(r *http.Request) (store.TxFilter, error) {
	q := r.URL.Query()
	f := store.TxFilter{
		AccountID: q.Get("account"),
		Category:  q.Get("category"),
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(queryDateLayout, v)
		if err != nil {
			return f, fmt.Errorf("bad from date %q", v)
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(queryDateLayout, v)
		if err != nil {
			return f, fmt.Errorf("bad to date %q", v)
		}
		f.To = t.AddDate(0, 0, 1)
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, fmt.Errorf("bad limit %q", v)
		}
		f.Limit = n
	}
	return f, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := txFilterFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.cfg.Transactions.List(filter)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	s.writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t model.Transaction
	if err := decodeJSON(r, &t); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.JoinValidation(t.Validate()); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.cfg.Accounts.Get(t.AccountID); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown account %q", t.AccountID))
		return
	}
	if t.Reference != "" {
		exists, err := s.cfg.Transactions.ReferenceExists(t.Reference)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		if exists {
			s.writeError(w, http.StatusConflict, fmt.Sprintf("reference %q already imported", t.Reference))
			return
		}
	}

	if err := s.cfg.Transactions.Create(&t); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.recordActivity("tx.add", t.ID, fmt.Sprintf("%s %s", t.Description, t.Amount.StringFixed(2)))
	s.writeJSON(w, http.StatusCreated, t)
}
