package handlers

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/agentstation/continuity/internal/server/response"
	"github.com/agentstation/continuity/internal/site"
	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// Thought is the API representation of a stored thought.
type Thought struct {
	Number    int    `json:"number"`
	Label     string `json:"label"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	File      string `json:"file,omitempty"`
}

// ThoughtList is the body of GET /thoughts.
type ThoughtList struct {
	Total    int       `json:"total"`
	Thoughts []Thought `json:"thoughts"`
}

// NewThought converts a stored thought for the API.
func NewThought(t thoughts.Thought) Thought {
	return Thought{
		Number:    t.Number,
		Label:     site.Label(t),
		Title:     t.Title(80),
		Timestamp: t.Timestamp,
		Content:   t.Content,
		Provider:  t.Provider,
		Model:     t.Model,
		File:      t.File,
	}
}

// HandleListThoughts handles GET /api/v1/thoughts.
//
// Query parameters:
//   - limit: how many thoughts to return (default 50, 0 for all)
//   - order: "newest" (default) or "oldest"
func (h *Handlers) HandleListThoughts(w http.ResponseWriter, r *http.Request) {
	limit := constants.DefaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.ErrorFromType(w, errors.NewValidationError("limit", raw, "must be a non-negative integer"))
			return
		}
		limit = n
	}

	order := r.URL.Query().Get("order")
	switch order {
	case "", "newest":
		order = "newest"
	case "oldest":
	default:
		response.ErrorFromType(w, errors.NewValidationError("order", order, "must be newest or oldest"))
		return
	}

	key := "thoughts:" + order + ":" + strconv.Itoa(limit)
	if cached, ok := h.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		response.OK(w, cached)
		return
	}

	all, err := h.engine.Thoughts()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	recent := thoughts.Recent(all, limit)
	list := ThoughtList{Total: len(all), Thoughts: make([]Thought, 0, len(recent))}
	for _, t := range recent {
		list.Thoughts = append(list.Thoughts, NewThought(t))
	}
	if order == "newest" {
		slices.Reverse(list.Thoughts)
	}

	h.cache.Set(key, list)
	w.Header().Set("X-Cache", "MISS")
	response.OK(w, list)
}

// HandleGetThought handles GET /api/v1/thoughts/{number}.
func (h *Handlers) HandleGetThought(w http.ResponseWriter, _ *http.Request, number string) {
	n, err := strconv.Atoi(number)
	if err != nil || n <= 0 {
		response.ErrorFromType(w, errors.NewValidationError("number", number, "must be a positive integer"))
		return
	}

	all, err := h.engine.Thoughts()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	i := slices.IndexFunc(all, func(t thoughts.Thought) bool { return t.Number == n })
	if i < 0 {
		response.ErrorFromType(w, errors.NewNotFoundError("thought", number))
		return
	}
	response.OK(w, NewThought(all[i]))
}
