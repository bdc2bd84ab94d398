package handlers

import (
	"net/http"

	"github.com/agentstation/continuity/internal/server/response"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "continuity",
		"version": h.version,
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once the
// thoughts directory can be read.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	all, err := h.engine.Thoughts()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Thoughts not readable")
		response.ServiceUnavailable(w, "Thoughts not available")
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"thoughts":          len(all),
		"cache":             h.cache.GetStats(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
