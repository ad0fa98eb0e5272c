package handlers

import (
	"net/http"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/monitoring"
)

// SystemHandler serves health and runtime information.
type SystemHandler struct {
	monitor *monitoring.Monitor
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(monitor *monitoring.Monitor) *SystemHandler {
	return &SystemHandler{monitor: monitor}
}

// Health reports the latest resource sample. Public, no auth.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	sample := h.monitor.Latest()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"cpuPercent": sample.CPUPercent,
		"memPercent": sample.MemPercent,
		"goroutines": sample.Goroutines,
		"uptime":     sample.UptimeSeconds,
	})
}
