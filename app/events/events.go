// Package events defines the shared command/response protocol surface: the
// single command inbox, the single event outbox, and the cross-module event
// types. Module-specific payloads live in each module's events package.
package events

import "encoding/json"

const (
	// CommandInbox is the one topic the presentation layer publishes
	// command envelopes to.
	CommandInbox = "engine.commands"
	// EventOutbox is the one topic every response and broadcast goes out on.
	EventOutbox = "engine.events"
	// MetadataEventKey names the outbox message's event type.
	MetadataEventKey = "event"
)

// Command is the envelope the presentation layer sends. Type selects the
// handler; Payload is the handler-specific body.
type Command struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Cross-module event types.
const (
	EventReady  = "ready"
	EventNotice = "notice"
	EventError  = "error"
)

// ErrorPayload is the structured error response. Validation failures cross
// the command boundary as these, never as dropped messages or panics.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NoticePayload is a generic user-facing notification.
type NoticePayload struct {
	Message string `json:"message"`
}
