package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports liveness of the chat connection and the state of the
// link shortener's circuit. The chat connection is the one hard dependency:
// while it is down every notification is dropped, so losing it makes the
// whole report unhealthy.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
	}
	code := http.StatusOK

	if err := h.chat.Health(); err != nil {
		status["status"] = "unhealthy"
		status["chat_status"] = "unhealthy"
		status["chat_error"] = err.Error()
		code = http.StatusServiceUnavailable
	} else {
		status["chat_status"] = "healthy"
	}

	stats := h.shortener.BreakerStats()
	status["shortener_breaker"] = stats.State
	if stats.State != "closed" && status["status"] == "healthy" {
		status["status"] = "degraded"
	}

	h.writeJSON(w, code, status)
}
