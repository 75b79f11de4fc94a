package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.cfg.Accounts.List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	s.writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a model.Account
	if err := decodeJSON(r, &a); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.JoinValidation(a.Validate()); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.cfg.Accounts.Create(&a); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.recordActivity("account.add", a.ID, a.Name)
	s.writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.cfg.Accounts.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.cfg.Accounts.Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.recordActivity("account.delete", id, "")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
