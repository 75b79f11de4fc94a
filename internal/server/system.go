package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/wealthtracker-dev/wealthtracker/internal/buildinfo"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "wealthtracker",
		"version": buildinfo.Version,
	})
}

// SystemStatus reports process and data health.
type SystemStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	DatabaseMB    float64 `json:"database_mb"`
	Accounts      int     `json:"accounts"`
	Transactions  int     `json:"transactions"`
	Debts         int     `json:"debts"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Goroutines    int     `json:"goroutines"`
}

func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	status := SystemStatus{
		Status:        "running",
		Version:       buildinfo.Version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
	}

	if info, err := os.Stat(s.cfg.DBPath); err == nil {
		status.DatabaseMB = float64(info.Size()) / 1024 / 1024
	}

	if accounts, err := s.cfg.Accounts.List(); err == nil {
		status.Accounts = len(accounts)
	}
	if n, err := s.cfg.Transactions.Count(); err == nil {
		status.Transactions = n
	}
	if debts, err := s.cfg.Debts.List(); err == nil {
		status.Debts = len(debts)
	}

	cpuPercent, memPercent := s.systemStats()
	status.CPUPercent = cpuPercent
	status.MemoryPercent = memPercent

	s.writeJSON(w, http.StatusOK, status)
}

// systemStats samples CPU over a short window so the endpoint stays
// responsive.
func (s *Server) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading CPU usage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("reading memory usage")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}
