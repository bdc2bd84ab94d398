// Package events fans think-cycle notifications out to the live transports.
//
// The engine's hooks publish into a Broker; the Broker forwards every event
// to its subscribers (the websocket hub and the SSE broadcaster) through the
// adapters package.
package events

import "time"

// EventType names an event on the live stream.
type EventType string

// Event types published by the server.
const (
	// ThoughtCreated fires after a thought has been persisted.
	ThoughtCreated EventType = "thought.created"
	// CycleFailed fires when a think cycle returns an error.
	CycleFailed EventType = "cycle.failed"
	// SiteRendered fires after the static site was rebuilt.
	SiteRendered EventType = "site.rendered"

	// ClientConnected is sent to a transport client right after it connects.
	ClientConnected EventType = "client.connected"
)

// Event is one message on the live stream.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
