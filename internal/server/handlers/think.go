package handlers

import (
	"net/http"

	"github.com/agentstation/continuity/internal/server/response"
	"github.com/agentstation/continuity/pkg/logging"
)

// ThinkResult is the body of a successful POST /think. Warning is set when
// the thought was saved but rendering or committing failed.
type ThinkResult struct {
	Thought Thought `json:"thought"`
	Warning string  `json:"warning,omitempty"`
}

// HandleThink handles POST /api/v1/think by running one think cycle.
// Concurrent requests queue behind the running cycle.
func (h *Handlers) HandleThink(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	t, err := h.engine.Think(r.Context())
	if err != nil && t.Number == 0 {
		logger.Warn().Err(err).Msg("Think request failed")
		response.ErrorFromType(w, err)
		return
	}

	// the engine's hooks publish the event; only the cache needs attention here
	h.cache.Clear()

	result := ThinkResult{Thought: NewThought(t)}
	if err != nil {
		logger.Warn().Err(err).Int("thought", t.Number).Msg("Thought saved with errors")
		result.Warning = err.Error()
	}
	response.Created(w, result)
}
