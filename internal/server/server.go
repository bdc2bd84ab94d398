// Package server serves the rendered site together with a small JSON API and
// live thought updates over WebSocket and Server-Sent Events.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/server/cache"
	"github.com/agentstation/continuity/internal/server/events"
	"github.com/agentstation/continuity/internal/server/events/adapters"
	"github.com/agentstation/continuity/internal/server/handlers"
	"github.com/agentstation/continuity/internal/server/sse"
	ws "github.com/agentstation/continuity/internal/server/websocket"
	"github.com/agentstation/continuity/pkg/constants"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// Engine is what the server needs from a continuity client.
type Engine interface {
	continuity.Thinker
	continuity.Stream
	continuity.Hooks
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine         Engine
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// New creates a server and connects it to the engine's hooks.
func New(engine Engine, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.NewValidationError("engine", nil, "engine is required")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}
	if cfg.AuthEnabled && cfg.APIKey == "" {
		return nil, errors.NewConfigError("serve", "auth enabled without an API key", errors.ErrAPIKeyRequired)
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		engine:         engine,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // read-only public stream
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	s.connectHooks()
	logger.Debug().Str("site_dir", cfg.SiteDir).Msg("Server created")
	return s, nil
}

// connectHooks publishes engine events to the broker.
func (s *Server) connectHooks() {
	s.engine.OnThought(func(t thoughts.Thought) {
		s.cache.Clear()
		s.broker.Publish(events.ThoughtCreated, handlers.NewThought(t))
		s.logger.Debug().Int("thought", t.Number).Msg("Thought event published")
	})

	s.engine.OnFailure(func(err error) {
		s.broker.Publish(events.CycleFailed, map[string]any{"error": err.Error()})
	})
}

// Start runs the broker, hub and broadcaster in the background.
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe starts background services and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.Start()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("Serving")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.cancel()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	_ = s.Shutdown(shutdownCtx)
	return err
}

// Shutdown stops background services.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	return nil
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// WSHub returns the websocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// Uptime returns how long the server has existed.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}
