package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := false
	switch r.URL.Query().Get("unread") {
	case "true", "1":
		unreadOnly = true
	}
	limit, err := intFromQuery(r, "limit", 50)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ns, err := s.cfg.Notifications.List(unreadOnly, limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if ns == nil {
		ns = []model.Notification{}
	}
	s.writeJSON(w, http.StatusOK, ns)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Notifications.MarkRead(chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleNotificationCheck runs the rule engine on demand.
func (s *Server) handleNotificationCheck(w http.ResponseWriter, r *http.Request) {
	created, err := s.cfg.Notify.EvaluateAll(time.Now())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if created == nil {
		created = []model.Notification{}
	}
	s.recordActivity("notify.check", "", fmt.Sprintf("created=%d", len(created)))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"created":       len(created),
		"notifications": created,
	})
}
