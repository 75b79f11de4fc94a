package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/wealthtracker-dev/wealthtracker/internal/period"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

func intFromQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad %s %q", name, v)
	}
	return n, nil
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := monthFromQuery(r, "month")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.cfg.Analytics.MonthlySummary(p)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	from, err := monthFromQuery(r, "from")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := monthFromQuery(r, "to")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sums, err := s.cfg.Analytics.Breakdown(from, to)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if sums == nil {
		sums = []store.CategorySum{}
	}
	s.writeJSON(w, http.StatusOK, sums)
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	months, err := intFromQuery(r, "months", 6)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flows, err := s.cfg.Analytics.CashFlow(period.Current(), months)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, flows)
}

func (s *Server) handleSpendingStats(w http.ResponseWriter, r *http.Request) {
	months, err := intFromQuery(r, "months", 12)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.cfg.Analytics.SpendingStats(period.Current(), months)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	months, err := intFromQuery(r, "months", 12)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	window, err := intFromQuery(r, "window", 3)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if window > months {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("window %d exceeds months %d", window, months))
		return
	}

	points, err := s.cfg.Analytics.Trend(period.Current(), months, window)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.cfg.Analytics.Dashboard(period.Current())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dash)
}
