package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity/internal/server/events"
	"github.com/agentstation/continuity/internal/server/sse"
	ws "github.com/agentstation/continuity/internal/server/websocket"
)

var (
	_ events.Subscriber = (*WebSocketSubscriber)(nil)
	_ events.Subscriber = (*SSESubscriber)(nil)
)

func TestAdapters_NeverError(t *testing.T) {
	logger := zerolog.Nop()
	hub := ws.NewHub(&logger)
	broadcaster := sse.NewBroadcaster(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	go broadcaster.Run(ctx)

	event := events.Event{Type: events.ThoughtCreated, Timestamp: time.Now(), Data: "x"}

	wsSub := NewWebSocketSubscriber(hub)
	require.NoError(t, wsSub.Send(event))
	assert.NoError(t, wsSub.Close())

	sseSub := NewSSESubscriber(broadcaster)
	require.NoError(t, sseSub.Send(event))
	assert.NoError(t, sseSub.Close())
}
