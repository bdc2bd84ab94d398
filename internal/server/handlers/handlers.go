// Package handlers implements the HTTP endpoints of the serve command.
package handlers

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/continuity/internal/server/cache"
	"github.com/agentstation/continuity/internal/server/sse"
	ws "github.com/agentstation/continuity/internal/server/websocket"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// Engine is the part of a continuity client the handlers use.
type Engine interface {
	Think(ctx context.Context) (thoughts.Thought, error)
	Thoughts() ([]thoughts.Thought, error)
}

// Handlers holds the dependencies shared by every endpoint.
type Handlers struct {
	engine         Engine
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	version        string
}

// New creates the handler set.
func New(
	engine Engine,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	version string,
) *Handlers {
	return &Handlers{
		engine:         engine,
		cache:          cache,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
		version:        version,
	}
}
